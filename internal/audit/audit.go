package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"instareview-reports-go/internal/logger"
	"instareview-reports-go/internal/types"
)

// Writer persists the immutable raw-record captures and aggregated
// snapshots for one report-generation run. Files are write-only: nothing
// in the pipeline reads them back.
type Writer struct {
	dir   string
	stamp string
}

func NewWriter(dataDir string, now time.Time) (*Writer, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Writer{dir: dataDir, stamp: now.Format("20060102_150405")}, nil
}

// SnapshotJSON writes a timestamped JSON capture, e.g.
// data/api_response_20250101_093000.json.
func (w *Writer) SnapshotJSON(name string, v any, log *logger.Logger) {
	path := filepath.Join(w.dir, fmt.Sprintf("%s_%s.json", name, w.stamp))
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.WithError(err).WithField("snapshot", name).Error("snapshot encode failed")
		return
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		log.WithError(err).WithField("snapshot", name).Error("snapshot write failed")
		return
	}
	log.WithField("path", path).Info("snapshot written")
}

// ExportMetricsXLSX writes the aggregated metrics as a workbook alongside
// the JSON snapshots, one sheet per statistic group.
func (w *Writer) ExportMetricsXLSX(metrics types.AggregatedMetrics, log *logger.Logger) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	const surveySheet = "Survey"
	f.SetSheetName(f.GetSheetName(0), surveySheet)
	f.SetSheetRow(surveySheet, "A1", &[]any{"Question", "Average"})
	row := 2
	for _, q := range sortedKeys(metrics.Survey.QuestionAverages) {
		f.SetSheetRow(surveySheet, fmt.Sprintf("A%d", row), &[]any{q, metrics.Survey.QuestionAverages[q]})
		row++
	}
	f.SetSheetRow(surveySheet, fmt.Sprintf("A%d", row+1), &[]any{"Total responses", metrics.Survey.TotalResponses})

	const sentimentSheet = "Sentiment"
	if _, err := f.NewSheet(sentimentSheet); err != nil {
		return "", fmt.Errorf("sentiment sheet: %w", err)
	}
	f.SetSheetRow(sentimentSheet, "A1", &[]any{"Bucket", "Count"})
	for i, bucket := range []string{types.SentimentPositive, types.SentimentNeutral, types.SentimentNegative} {
		f.SetSheetRow(sentimentSheet, fmt.Sprintf("A%d", i+2), &[]any{bucket, metrics.Audio.SentimentDistribution[bucket]})
	}
	f.SetSheetRow(sentimentSheet, "A6", &[]any{"Positive %", metrics.Overall.PositivePercentage})
	f.SetSheetRow(sentimentSheet, "A7", &[]any{"Neutral %", metrics.Overall.NeutralPercentage})
	f.SetSheetRow(sentimentSheet, "A8", &[]any{"Negative %", metrics.Overall.NegativePercentage})

	const themesSheet = "Themes"
	if _, err := f.NewSheet(themesSheet); err != nil {
		return "", fmt.Errorf("themes sheet: %w", err)
	}
	f.SetSheetRow(themesSheet, "A1", &[]any{"Positive", "Negative", "Recommendations"})
	rows := max(len(metrics.Audio.PositiveThemes), max(len(metrics.Audio.NegativeThemes), len(metrics.Audio.Recommendations)))
	for i := 0; i < rows; i++ {
		f.SetSheetRow(themesSheet, fmt.Sprintf("A%d", i+2), &[]any{
			at(metrics.Audio.PositiveThemes, i),
			at(metrics.Audio.NegativeThemes, i),
			at(metrics.Audio.Recommendations, i),
		})
	}

	path := filepath.Join(w.dir, fmt.Sprintf("analytics_summary_%s.xlsx", w.stamp))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	log.WithField("path", path).Info("metrics workbook written")
	return path, nil
}

// sortedKeys keeps workbook output stable regardless of map iteration order.
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func at(items []string, i int) string {
	if i < len(items) {
		return items[i]
	}
	return ""
}
