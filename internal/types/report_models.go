// internal/types/report_models.go
package types

import "time"

// --------------------------------------------
// Aggregated analytics delivered to the report
// --------------------------------------------

type SurveyMetrics struct {
	TotalResponses   int                `json:"total_responses"`
	QuestionAverages map[string]float64 `json:"question_averages"`
}

type AudioMetrics struct {
	TotalFeedback         int            `json:"total_feedback"`
	SentimentDistribution map[string]int `json:"sentiment_distribution"`
	PositiveThemes        []string       `json:"positive_themes"`
	NegativeThemes        []string       `json:"negative_themes"`
	Recommendations       []string       `json:"recommendations"`
	SampleQuotes          []string       `json:"sample_quotes"`
}

type OverallStats struct {
	TotalFeedback      int `json:"total_feedback"`
	PositivePercentage int `json:"positive_percentage"`
	NeutralPercentage  int `json:"neutral_percentage"`
	NegativePercentage int `json:"negative_percentage"`
}

type AggregatedMetrics struct {
	Survey  SurveyMetrics `json:"survey_metrics"`
	Audio   AudioMetrics  `json:"audio_metrics"`
	Overall OverallStats  `json:"overall_stats"`
}

// --------------------------------------------
// Company profile (details API / company store)
// --------------------------------------------

type CompanyProfile struct {
	ID          string `json:"id"`
	CompanyName string `json:"companyName"`
	City        string `json:"city"`
	Industry    string `json:"industry"`
	Email       string `json:"email,omitempty"`
	DateUpdated string `json:"dateUpdated,omitempty"`
}

// --------------------------------------------
// FINAL presentation model handed to rendering
// --------------------------------------------

type QuestionAverage struct {
	Question string  `json:"question"`
	Average  float64 `json:"average"`
}

type TrendSeries struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

type StarRatings struct {
	Labels  []string `json:"labels"`
	Values  []int    `json:"values"`
	Average float64  `json:"average"`
}

type ChannelMix struct {
	SurveyPercent int `json:"survey_percent"`
	AudioPercent  int `json:"audio_percent"`
}

type ReportModel struct {
	CompanyName     string    `json:"company_name"`
	CompanyCity     string    `json:"company_city"`
	CompanyIndustry string    `json:"company_industry"`
	PeriodStart     time.Time `json:"report_period_start"`
	PeriodEnd       time.Time `json:"report_period_end"`
	GeneratedAt     time.Time `json:"generated_at"`

	TotalReviews    int    `json:"total_reviews"`
	PositiveReviews int    `json:"positive_reviews"`
	NeutralReviews  int    `json:"neutral_reviews"`
	NegativeReviews int    `json:"negative_reviews"`
	AvgDuration     string `json:"avg_feedback_duration"`
	NPSScore        int    `json:"nps_score"`

	TopQuestions   []QuestionAverage `json:"top_questions"`
	Channels       ChannelMix        `json:"channels"`
	PositiveThemes []string          `json:"positive_themes"`
	NegativeThemes []string          `json:"negative_themes"`
	NotableQuotes  []string          `json:"notable_quotes"`
	Recommendation string            `json:"recommendation"`

	SentimentTrend TrendSeries `json:"sentiment_trend_data"`
	NPSTrend       TrendSeries `json:"nps_trend_data"`
	StarRatings    StarRatings `json:"star_ratings_data"`

	Metrics AggregatedMetrics `json:"metrics"`
}
