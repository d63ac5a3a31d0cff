package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"instareview-reports-go/internal/types"
)

// Period is the reporting window shown on the report.
type Period struct {
	Start time.Time
	End   time.Time
}

// ResolvePeriod uses explicit from/to dates verbatim when supplied
// (trailing Z stripped before parsing) and otherwise defaults to the
// current ISO week, Monday through Sunday.
func ResolvePeriod(from, to string, now time.Time) (Period, error) {
	if from != "" && to != "" {
		start, err := parseDate(from)
		if err != nil {
			return Period{}, fmt.Errorf("from date: %w", err)
		}
		end, err := parseDate(to)
		if err != nil {
			return Period{}, fmt.Errorf("to date: %w", err)
		}
		return Period{Start: start, End: end}, nil
	}

	// Monday of the current ISO week.
	offset := (int(now.Weekday()) + 6) % 7
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -offset)
	return Period{Start: start, End: start.AddDate(0, 0, 6)}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSuffix(s, "Z")
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Fixed perturbation offsets that turn a single data point into
// plausible-looking chart series. These are presentation placeholders, not
// historical data; feeding real time series in is a product decision.
var (
	sentimentTrendOffsets = []int{0, 5, -3, 8, 2, 10, 6}
	npsTrendOffsets       = []int{-2, 1, -1, 0}
)

// BuildModel combines aggregated metrics with the company profile and the
// reporting period into the presentation-ready model. A nil profile falls
// back to Unknown display values, with the first record's companyId taking
// over the name when available.
func BuildModel(metrics types.AggregatedMetrics, profile *types.CompanyProfile, records []types.NormalizedRecord, period Period, now time.Time) types.ReportModel {
	name, city, industry := "Unknown Company", "Unknown", "Unknown"
	if profile != nil {
		if profile.CompanyName != "" {
			name = profile.CompanyName
		}
		if profile.City != "" {
			city = profile.City
		}
		if profile.Industry != "" {
			industry = profile.Industry
		}
	} else if len(records) > 0 && records[0].CompanyID != "" {
		name = records[0].CompanyID
	}

	overall := metrics.Overall
	total := overall.TotalFeedback

	m := types.ReportModel{
		CompanyName:     name,
		CompanyCity:     city,
		CompanyIndustry: industry,
		PeriodStart:     period.Start,
		PeriodEnd:       period.End,
		GeneratedAt:     now,

		TotalReviews:    total,
		PositiveReviews: total * overall.PositivePercentage / 100,
		NeutralReviews:  total * overall.NeutralPercentage / 100,
		NegativeReviews: total * overall.NegativePercentage / 100,
		AvgDuration:     averageDuration(records),
		NPSScore:        clamp(50+overall.PositivePercentage-overall.NegativePercentage, 10, 100),

		TopQuestions:   rankQuestions(metrics.Survey.QuestionAverages),
		Channels:       channelMix(metrics),
		PositiveThemes: metrics.Audio.PositiveThemes,
		NegativeThemes: metrics.Audio.NegativeThemes,
		NotableQuotes:  metrics.Audio.SampleQuotes,
		Recommendation: joinRecommendations(metrics.Audio.Recommendations),

		Metrics: metrics,
	}

	m.SentimentTrend = trendSeries("Day", overall.PositivePercentage, sentimentTrendOffsets)
	m.NPSTrend = types.TrendSeries{
		Labels: []string{"Week 1", "Week 2", "Week 3", "Week 4"},
		Values: offsetSeries(m.NPSScore, npsTrendOffsets),
	}
	m.StarRatings = starRatings(metrics)
	return m
}

func trendSeries(labelPrefix string, base int, offsets []int) types.TrendSeries {
	labels := make([]string, len(offsets))
	for i := range offsets {
		labels[i] = fmt.Sprintf("%s %d", labelPrefix, i+1)
	}
	return types.TrendSeries{Labels: labels, Values: offsetSeries(base, offsets)}
}

func offsetSeries(base int, offsets []int) []int {
	out := make([]int, len(offsets))
	for i, off := range offsets {
		out[i] = base + off
	}
	return out
}

// starRatings splits the three sentiment percentages into five synthetic
// star buckets; a presentation approximation, not measured ratings.
func starRatings(metrics types.AggregatedMetrics) types.StarRatings {
	o := metrics.Overall
	fourStar := 100 - o.PositivePercentage - o.NeutralPercentage - o.NegativePercentage
	if fourStar < 0 {
		fourStar = 0
	}
	return types.StarRatings{
		Labels: []string{"5 ★", "4 ★", "3 ★", "2 ★", "1 ★"},
		Values: []int{
			o.PositivePercentage,
			fourStar,
			o.NeutralPercentage,
			o.NegativePercentage / 2,
			o.NegativePercentage - o.NegativePercentage/2,
		},
		Average: averageStar(metrics.Survey.QuestionAverages),
	}
}

func averageStar(averages map[string]float64) float64 {
	if len(averages) == 0 {
		return 0
	}
	sum := 0.0
	for _, avg := range averages {
		sum += avg
	}
	return math.Round(sum/float64(len(averages))*10) / 10
}

func rankQuestions(averages map[string]float64) []types.QuestionAverage {
	out := make([]types.QuestionAverage, 0, len(averages))
	for q, avg := range averages {
		out = append(out, types.QuestionAverage{Question: q, Average: avg})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Average != out[j].Average {
			return out[i].Average > out[j].Average
		}
		return out[i].Question < out[j].Question
	})
	return out
}

// channelMix rounds each share independently; the two need not sum to 100.
func channelMix(metrics types.AggregatedMetrics) types.ChannelMix {
	total := metrics.Overall.TotalFeedback
	if total == 0 {
		return types.ChannelMix{}
	}
	return types.ChannelMix{
		SurveyPercent: int(math.Round(float64(metrics.Survey.TotalResponses) / float64(total) * 100)),
		AudioPercent:  int(math.Round(float64(metrics.Audio.TotalFeedback) / float64(total) * 100)),
	}
}

func averageDuration(records []types.NormalizedRecord) string {
	sum, n := 0.0, 0
	for _, rec := range records {
		if rec.Audio != nil {
			sum += rec.Audio.DurationSec
			n++
		}
	}
	if n == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f min", sum/float64(n)/60)
}

func joinRecommendations(recs []string) string {
	joined := strings.Join(recs, ". ")
	joined = strings.ReplaceAll(joined, "; ", ". ")
	return strings.ReplaceAll(joined, ";", "")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
