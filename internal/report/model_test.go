package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"instareview-reports-go/internal/types"
)

func metricsFixture() types.AggregatedMetrics {
	return types.AggregatedMetrics{
		Survey: types.SurveyMetrics{
			TotalResponses:   2,
			QuestionAverages: map[string]float64{"Q1": 3.0, "Q2": 4.6},
		},
		Audio: types.AudioMetrics{
			TotalFeedback: 2,
			SentimentDistribution: map[string]int{
				types.SentimentPositive: 1,
				types.SentimentNeutral:  0,
				types.SentimentNegative: 1,
			},
			PositiveThemes:  []string{"great service"},
			NegativeThemes:  []string{"too slow"},
			Recommendations: []string{"add staff; train team", "faster checkout"},
			SampleQuotes:    []string{"Customer mentioned: great service"},
		},
		Overall: types.OverallStats{
			TotalFeedback:      4,
			PositivePercentage: 50,
			NeutralPercentage:  0,
			NegativePercentage: 50,
		},
	}
}

func genTime() time.Time {
	// A Wednesday.
	return time.Date(2025, 9, 10, 15, 30, 0, 0, time.UTC)
}

func TestResolvePeriodExplicitDatesStripTrailingZ(t *testing.T) {
	p, err := ResolvePeriod("2025-09-01T00:00:00Z", "2025-09-07T00:00:00Z", genTime())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC), p.End)
}

func TestResolvePeriodDateOnly(t *testing.T) {
	p, err := ResolvePeriod("2025-09-01", "2025-09-07", genTime())
	require.NoError(t, err)
	assert.Equal(t, 1, p.Start.Day())
	assert.Equal(t, 7, p.End.Day())
}

func TestResolvePeriodDefaultsToCurrentISOWeek(t *testing.T) {
	p, err := ResolvePeriod("", "", genTime())
	require.NoError(t, err)
	assert.Equal(t, time.Monday, p.Start.Weekday())
	assert.Equal(t, time.Sunday, p.End.Weekday())
	assert.Equal(t, time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2025, 9, 14, 0, 0, 0, 0, time.UTC), p.End)
}

func TestResolvePeriodRejectsGarbage(t *testing.T) {
	_, err := ResolvePeriod("soon", "later", genTime())
	assert.Error(t, err)
}

func TestBuildModelProfileValues(t *testing.T) {
	profile := &types.CompanyProfile{CompanyName: "Taco Corner", City: "Austin", Industry: "FNB"}
	period, _ := ResolvePeriod("", "", genTime())

	m := BuildModel(metricsFixture(), profile, nil, period, genTime())

	assert.Equal(t, "Taco Corner", m.CompanyName)
	assert.Equal(t, "Austin", m.CompanyCity)
	assert.Equal(t, "FNB", m.CompanyIndustry)
}

func TestBuildModelFallbackToCompanyID(t *testing.T) {
	records := []types.NormalizedRecord{{ID: "r-1", CompanyID: "acme-123"}}
	period, _ := ResolvePeriod("", "", genTime())

	m := BuildModel(metricsFixture(), nil, records, period, genTime())

	assert.Equal(t, "acme-123", m.CompanyName)
	assert.Equal(t, "Unknown", m.CompanyCity)
	assert.Equal(t, "Unknown", m.CompanyIndustry)
}

func TestBuildModelFallbackWithoutRecords(t *testing.T) {
	period, _ := ResolvePeriod("", "", genTime())

	m := BuildModel(metricsFixture(), nil, nil, period, genTime())

	assert.Equal(t, "Unknown Company", m.CompanyName)
}

func TestBuildModelReviewCountsTruncate(t *testing.T) {
	metrics := metricsFixture()
	metrics.Overall = types.OverallStats{
		TotalFeedback:      7,
		PositivePercentage: 33,
		NeutralPercentage:  33,
		NegativePercentage: 33,
	}
	period, _ := ResolvePeriod("", "", genTime())

	m := BuildModel(metrics, nil, nil, period, genTime())

	// floor(7*33/100) = 2 each; truncation drift is accepted.
	assert.Equal(t, 2, m.PositiveReviews)
	assert.Equal(t, 2, m.NeutralReviews)
	assert.Equal(t, 2, m.NegativeReviews)
	assert.Equal(t, 7, m.TotalReviews)
}

func TestBuildModelNPSScore(t *testing.T) {
	metrics := metricsFixture()
	period, _ := ResolvePeriod("", "", genTime())

	m := BuildModel(metrics, nil, nil, period, genTime())
	assert.Equal(t, 50, m.NPSScore) // 50 + 50 - 50

	metrics.Overall.PositivePercentage = 100
	metrics.Overall.NegativePercentage = 0
	m = BuildModel(metrics, nil, nil, period, genTime())
	assert.Equal(t, 100, m.NPSScore) // clamped at 100

	metrics.Overall.PositivePercentage = 0
	metrics.Overall.NegativePercentage = 100
	m = BuildModel(metrics, nil, nil, period, genTime())
	assert.Equal(t, 10, m.NPSScore) // clamped at 10
}

func TestBuildModelZeroAudioScenario(t *testing.T) {
	metrics := types.AggregatedMetrics{
		Survey: types.SurveyMetrics{TotalResponses: 3, QuestionAverages: map[string]float64{"Q1": 4.0}},
		Audio: types.AudioMetrics{
			SentimentDistribution: map[string]int{"Positive": 0, "Neutral": 0, "Negative": 0},
		},
		Overall: types.OverallStats{TotalFeedback: 3},
	}
	period, _ := ResolvePeriod("", "", genTime())

	m := BuildModel(metrics, nil, nil, period, genTime())

	assert.Equal(t, 50, m.NPSScore)
	assert.Equal(t, 100, m.Channels.SurveyPercent)
	assert.Equal(t, 0, m.Channels.AudioPercent)
}

func TestBuildModelZeroFeedbackChannels(t *testing.T) {
	period, _ := ResolvePeriod("", "", genTime())

	m := BuildModel(types.AggregatedMetrics{}, nil, nil, period, genTime())

	assert.Equal(t, 0, m.Channels.SurveyPercent)
	assert.Equal(t, 0, m.Channels.AudioPercent)
}

func TestBuildModelSentimentTrendOffsets(t *testing.T) {
	period, _ := ResolvePeriod("", "", genTime())

	m := BuildModel(metricsFixture(), nil, nil, period, genTime())

	assert.Equal(t, []int{50, 55, 47, 58, 52, 60, 56}, m.SentimentTrend.Values)
	assert.Equal(t, []string{"Day 1", "Day 2", "Day 3", "Day 4", "Day 5", "Day 6", "Day 7"}, m.SentimentTrend.Labels)
}

func TestBuildModelNPSTrendOffsets(t *testing.T) {
	period, _ := ResolvePeriod("", "", genTime())

	m := BuildModel(metricsFixture(), nil, nil, period, genTime())

	assert.Equal(t, []int{48, 51, 49, 50}, m.NPSTrend.Values)
}

func TestBuildModelStarRatings(t *testing.T) {
	metrics := metricsFixture()
	metrics.Overall = types.OverallStats{
		TotalFeedback:      4,
		PositivePercentage: 60,
		NeutralPercentage:  15,
		NegativePercentage: 25,
	}
	period, _ := ResolvePeriod("", "", genTime())

	m := BuildModel(metrics, nil, nil, period, genTime())

	assert.Equal(t, []int{60, 0, 15, 12, 13}, m.StarRatings.Values)
	// Mean of the question averages: (3.0 + 4.6) / 2 = 3.8.
	assert.Equal(t, 3.8, m.StarRatings.Average)
}

func TestBuildModelRanksQuestionsByAverage(t *testing.T) {
	period, _ := ResolvePeriod("", "", genTime())

	m := BuildModel(metricsFixture(), nil, nil, period, genTime())

	assert.Equal(t, []types.QuestionAverage{
		{Question: "Q2", Average: 4.6},
		{Question: "Q1", Average: 3.0},
	}, m.TopQuestions)
}

func TestBuildModelRecommendationJoining(t *testing.T) {
	period, _ := ResolvePeriod("", "", genTime())

	m := BuildModel(metricsFixture(), nil, nil, period, genTime())

	assert.Equal(t, "add staff. train team. faster checkout", m.Recommendation)
}

func TestBuildModelAverageDuration(t *testing.T) {
	records := []types.NormalizedRecord{
		{Audio: &types.AudioFeedback{DurationSec: 90}},
		{Audio: &types.AudioFeedback{DurationSec: 126}},
		{Answers: []types.SurveyAnswer{{Question: "Q1", Answer: 3}}},
	}
	period, _ := ResolvePeriod("", "", genTime())

	m := BuildModel(metricsFixture(), nil, records, period, genTime())
	assert.Equal(t, "1.8 min", m.AvgDuration)

	m = BuildModel(metricsFixture(), nil, nil, period, genTime())
	assert.Equal(t, "N/A", m.AvgDuration)
}
