package normalizer

import (
	"encoding/json"
	"strings"

	"instareview-reports-go/internal/logger"
	"instareview-reports-go/internal/types"
)

// Normalize reshapes one raw record into its typed form. It never fails on
// malformed input: unusable metadata just means the record carries no audio
// contribution. The second return is false when the record carries no
// signal at all (no answers and no usable metadata) and must be dropped.
func Normalize(rec types.FeedbackRecord, log *logger.Logger) (types.NormalizedRecord, bool) {
	audio := parseMetadata(rec.MetaData, log.WithField("record_id", string(rec.ID)))

	if audio == nil && len(rec.Quess) == 0 {
		return types.NormalizedRecord{}, false
	}

	return types.NormalizedRecord{
		ID:        string(rec.ID),
		CompanyID: rec.CompanyID,
		UserEmail: rec.UserEmail,
		Answers:   rec.Quess,
		Audio:     audio,
	}, true
}

// NormalizeAll maps a batch, dropping signal-free records.
func NormalizeAll(records []types.FeedbackRecord, log *logger.Logger) []types.NormalizedRecord {
	out := make([]types.NormalizedRecord, 0, len(records))
	dropped := 0
	for _, rec := range records {
		norm, ok := Normalize(rec, log)
		if !ok {
			dropped++
			continue
		}
		out = append(out, norm)
	}
	if dropped > 0 {
		log.WithField("dropped", dropped).Info("dropped records with no survey answers or usable metadata")
	}
	log.WithField("normalized", len(out)).Info("normalization complete")
	return out
}

// rawMeta mirrors the metadata blob with pointer fields so that absent
// required keys are distinguishable from zero values.
type rawMeta struct {
	AudioID          *types.FlexString `json:"audioId"`
	DetectedLanguage *string           `json:"detectedLanguage"`
	DurationSec      *types.FlexFloat  `json:"audioDurationSec"`
	Transcript       string            `json:"transcript"`
	Analysis         *rawAnalysis      `json:"feedbackAnalysis"`
}

type rawAnalysis struct {
	OverallSentiment   *string         `json:"overallSentiment"`
	TonePrimary        *string         `json:"tonePrimary"`
	PositiveIndicators *[]string       `json:"positiveIndicators"`
	NegativeIndicators *[]string       `json:"negativeIndicators"`
	ComplaintsDetected *types.FlexBool `json:"complaintsDetected"`
	Recommendations    *[]string       `json:"recommendations"`
	RetentionRisk      *string         `json:"retentionRisk"`
}

// parseMetadata handles the string-or-object union at the ingestion
// boundary. Any failure mode returns nil: the record still counts toward
// survey metrics, it just has no audio contribution.
func parseMetadata(raw json.RawMessage, log *logger.Logger) *types.AudioFeedback {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	data := []byte(trimmed)
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			log.WithError(err).Warn("metadata string is not valid JSON, treating as absent")
			return nil
		}
		data = []byte(inner)
	}

	var meta rawMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		log.WithError(err).Warn("unparseable metadata, treating as absent")
		return nil
	}

	if missing := missingFields(meta); len(missing) > 0 {
		log.WithField("missing", strings.Join(missing, ",")).Warn("metadata missing required fields, excluding audio contribution")
		return nil
	}

	return &types.AudioFeedback{
		AudioID:          string(*meta.AudioID),
		DetectedLanguage: *meta.DetectedLanguage,
		DurationSec:      float64(*meta.DurationSec),
		Transcript:       meta.Transcript,
		Analysis: types.FeedbackAnalysis{
			OverallSentiment:   *meta.Analysis.OverallSentiment,
			TonePrimary:        *meta.Analysis.TonePrimary,
			PositiveIndicators: *meta.Analysis.PositiveIndicators,
			NegativeIndicators: *meta.Analysis.NegativeIndicators,
			ComplaintsDetected: bool(*meta.Analysis.ComplaintsDetected),
			Recommendations:    *meta.Analysis.Recommendations,
			RetentionRisk:      *meta.Analysis.RetentionRisk,
		},
	}
}

func missingFields(meta rawMeta) []string {
	var missing []string
	if meta.AudioID == nil {
		missing = append(missing, "audioId")
	}
	if meta.DetectedLanguage == nil {
		missing = append(missing, "detectedLanguage")
	}
	if meta.DurationSec == nil {
		missing = append(missing, "audioDurationSec")
	}
	if meta.Analysis == nil {
		missing = append(missing, "feedbackAnalysis")
		return missing
	}
	a := meta.Analysis
	if a.OverallSentiment == nil {
		missing = append(missing, "overallSentiment")
	}
	if a.TonePrimary == nil {
		missing = append(missing, "tonePrimary")
	}
	if a.PositiveIndicators == nil {
		missing = append(missing, "positiveIndicators")
	}
	if a.NegativeIndicators == nil {
		missing = append(missing, "negativeIndicators")
	}
	if a.ComplaintsDetected == nil {
		missing = append(missing, "complaintsDetected")
	}
	if a.Recommendations == nil {
		missing = append(missing, "recommendations")
	}
	if a.RetentionRisk == nil {
		missing = append(missing, "retentionRisk")
	}
	return missing
}
