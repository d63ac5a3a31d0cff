package aggregator

import (
	"math"

	"instareview-reports-go/internal/logger"
	"instareview-reports-go/internal/types"
)

const (
	maxThemes          = 5
	maxRecommendations = 3
	maxQuotes          = 3
	quotePrefix        = "Customer mentioned: "
)

// Words too generic to surface as customer quotes.
var quoteStoplist = map[string]struct{}{
	"neutral": {},
	"okay":    {},
	"uh":      {},
}

// Aggregate is a pure function over normalized records. It is
// deterministic for a given input order: theme and quote selection follows
// first-seen order, no ranking. Rounding is half away from zero
// throughout.
func Aggregate(records []types.NormalizedRecord, log *logger.Logger) types.AggregatedMetrics {
	questionTotals := map[string]float64{}
	questionCounts := map[string]int{}
	totalAnswers := 0

	sentiments := map[string]int{
		types.SentimentPositive: 0,
		types.SentimentNeutral:  0,
		types.SentimentNegative: 0,
	}
	audioTotal := 0

	positiveThemes := newOrderedSet()
	negativeThemes := newOrderedSet()
	quotes := newOrderedSet()
	var recommendations []string

	for _, rec := range records {
		for _, ans := range rec.Answers {
			questionTotals[ans.Question] += float64(ans.Answer)
			questionCounts[ans.Question]++
			totalAnswers++
		}

		if rec.Audio == nil {
			continue
		}
		audioTotal++
		a := rec.Audio.Analysis

		sentiment := a.OverallSentiment
		if _, known := sentiments[sentiment]; !known {
			log.WithField("record_id", rec.ID).WithField("sentiment", sentiment).Warn("unknown sentiment value, counting as Neutral")
			sentiment = types.SentimentNeutral
		}
		sentiments[sentiment]++

		for _, p := range a.PositiveIndicators {
			positiveThemes.add(p)
		}
		for _, n := range a.NegativeIndicators {
			negativeThemes.add(n)
		}
		recommendations = append(recommendations, a.Recommendations...)

		for _, phrase := range append(append([]string{}, a.PositiveIndicators...), a.NegativeIndicators...) {
			if quotable(phrase) {
				quotes.add(quotePrefix + phrase)
			}
		}
	}

	averages := make(map[string]float64, len(questionTotals))
	for q, total := range questionTotals {
		averages[q] = round1(total / float64(questionCounts[q]))
	}

	sampleQuotes := quotes.first(maxQuotes)
	if len(sampleQuotes) == 0 {
		sampleQuotes = []string{"No transcript available"}
	}

	return types.AggregatedMetrics{
		Survey: types.SurveyMetrics{
			TotalResponses:   totalAnswers,
			QuestionAverages: averages,
		},
		Audio: types.AudioMetrics{
			TotalFeedback:         audioTotal,
			SentimentDistribution: sentiments,
			PositiveThemes:        positiveThemes.first(maxThemes),
			NegativeThemes:        negativeThemes.first(maxThemes),
			Recommendations:       truncate(recommendations, maxRecommendations),
			SampleQuotes:          sampleQuotes,
		},
		Overall: types.OverallStats{
			TotalFeedback:      totalAnswers + audioTotal,
			PositivePercentage: percentage(sentiments[types.SentimentPositive], audioTotal),
			NeutralPercentage:  percentage(sentiments[types.SentimentNeutral], audioTotal),
			NegativePercentage: percentage(sentiments[types.SentimentNegative], audioTotal),
		},
	}
}

func quotable(phrase string) bool {
	if len(phrase) <= 3 {
		return false
	}
	_, stopped := quoteStoplist[phrase]
	return !stopped
}

// percentage is integer-rounded against the audio total only; survey
// responses carry no sentiment and stay out of the denominator.
func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func truncate(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// orderedSet deduplicates while preserving first-seen order.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: map[string]struct{}{}}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *orderedSet) first(n int) []string {
	out := s.items
	if len(out) > n {
		out = out[:n]
	}
	// Callers may hold the result past further mutation.
	return append([]string{}, out...)
}
