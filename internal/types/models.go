package types

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Sentiment buckets used across aggregation. Anything else coming off the
// wire is a data-quality problem handled at aggregation time.
const (
	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentNegative = "Negative"
)

// FeedbackRecord is one raw customer submission as returned by the reviews
// API. Survey answers and audio metadata are both optional; metaData may
// arrive as a JSON object or as a JSON-encoded string.
type FeedbackRecord struct {
	ID        FlexString      `json:"id"`
	CompanyID string          `json:"companyId"`
	UserEmail string          `json:"userEmail,omitempty"`
	Quess     []SurveyAnswer  `json:"quess,omitempty"`
	MetaData  json.RawMessage `json:"metaData,omitempty"`
}

type SurveyAnswer struct {
	Question   string    `json:"question"`
	Answer     FlexFloat `json:"answer"`
	QuestionID string    `json:"questionId"`
}

// AudioFeedback is the typed form of a record's metaData blob.
type AudioFeedback struct {
	AudioID          string           `json:"audioId"`
	DetectedLanguage string           `json:"detectedLanguage"`
	DurationSec      float64          `json:"audioDurationSec"`
	Transcript       string           `json:"transcript,omitempty"`
	Analysis         FeedbackAnalysis `json:"feedbackAnalysis"`
}

type FeedbackAnalysis struct {
	OverallSentiment   string   `json:"overallSentiment"`
	TonePrimary        string   `json:"tonePrimary"`
	PositiveIndicators []string `json:"positiveIndicators"`
	NegativeIndicators []string `json:"negativeIndicators"`
	ComplaintsDetected bool     `json:"complaintsDetected"`
	Recommendations    []string `json:"recommendations"`
	RetentionRisk      string   `json:"retentionRisk"`
}

// NormalizedRecord is what the aggregator consumes. Audio is nil when the
// record carried no usable metadata.
type NormalizedRecord struct {
	ID        string         `json:"id"`
	CompanyID string         `json:"companyId"`
	UserEmail string         `json:"userEmail,omitempty"`
	Answers   []SurveyAnswer `json:"answers,omitempty"`
	Audio     *AudioFeedback `json:"audio,omitempty"`
}

// --------------------------------------------
// Flexible JSON scalars
// --------------------------------------------
// The upstream API is loose about scalar encodings: ids and durations show
// up as numbers or strings depending on which writer produced the row, and
// the complaint flag comes back as a bool or the strings "true"/"false".

// FlexString accepts a JSON string or number.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

// FlexFloat accepts a JSON number or a numeric string.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*f = FlexFloat(parsed)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// FlexBool accepts a JSON bool or the strings "true"/"false".
type FlexBool bool

func (fb *FlexBool) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*fb = FlexBool(parsed)
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*fb = FlexBool(v)
	return nil
}
