package report

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strings"

	"instareview-reports-go/internal/types"
)

const reportHTMLTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.CompanyName}} Weekly Analytics Report - InstaReview.ai</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body { font-family: 'Inter', -apple-system, sans-serif; background: white; color: #1e293b; -webkit-print-color-adjust: exact; }
    .page { width: 210mm; min-height: 297mm; padding: 30mm 15mm 25mm 15mm; background: white; page-break-inside: avoid; }
    @page { size: A4; margin: 0; }
    .kpi-row { display: flex; gap: 12px; margin-bottom: 16px; }
    .kpi { flex: 1; border: 1px solid #e2e8f0; border-radius: 8px; padding: 14px; text-align: center; }
    .kpi-value { font-size: 24px; font-weight: 800; }
    .kpi-label { font-size: 10px; color: #64748b; font-weight: 500; }
    .card-row { display: flex; gap: 12px; margin-bottom: 16px; }
    .insight-card { flex: 1; border: 1px solid #e2e8f0; border-radius: 8px; padding: 15px; }
    .insight-title { font-size: 12px; font-weight: 700; margin-bottom: 8px; }
    .theme-list { list-style: none; display: flex; flex-wrap: wrap; gap: 4px; margin-bottom: 8px; }
    .theme-tag { background: #eff6ff; color: #1d4ed8; padding: 2px 8px; border-radius: 12px; font-size: 10px; }
    .theme-tag.negative { background: #fef2f2; color: #dc2626; }
    .quote { font-style: italic; color: #64748b; margin-bottom: 4px; padding: 6px; background: #f8fafc; border-radius: 4px; border-left: 2px solid #3b82f6; font-size: 10px; }
    .questions-table { width: 100%; border-collapse: collapse; font-size: 10px; }
    .questions-table td { padding: 4px; text-align: left; border-bottom: 1px solid #e2e8f0; }
    .rating-stars { color: #fbbf24; }
    .bar-row { display: flex; align-items: center; gap: 6px; font-size: 9px; margin-bottom: 3px; }
    .bar-label { width: 48px; color: #64748b; }
    .bar-track { flex: 1; background: #f1f5f9; border-radius: 3px; height: 10px; }
    .bar-fill { background: #3b82f6; border-radius: 3px; height: 10px; }
    .bar-fill.green { background: #10b981; }
    .breakdown { font-size: 11px; }
    .breakdown div { display: flex; justify-content: space-between; margin-bottom: 6px; }
  </style>
</head>
<body>
  <div class="page">
    <div class="kpi-row">
      <div class="kpi"><div class="kpi-value">{{.TotalReviews}}</div><div class="kpi-label">Total Reviews</div></div>
      <div class="kpi"><div class="kpi-value">{{.Metrics.Overall.PositivePercentage}}%</div><div class="kpi-label">Positive</div></div>
      <div class="kpi"><div class="kpi-value">{{.Metrics.Overall.NeutralPercentage}}%</div><div class="kpi-label">Neutral</div></div>
      <div class="kpi"><div class="kpi-value">{{.Metrics.Overall.NegativePercentage}}%</div><div class="kpi-label">Negative</div></div>
      <div class="kpi"><div class="kpi-value">{{.NPSScore}}</div><div class="kpi-label">NPS Score</div></div>
    </div>

    <div class="card-row">
      <div class="insight-card">
        <div class="insight-title">Sentiment Trend (7 Days)</div>
        {{range $i, $v := .SentimentTrend.Values}}
        <div class="bar-row"><span class="bar-label">{{index $.SentimentTrend.Labels $i}}</span><div class="bar-track"><div class="bar-fill green" style="width: {{barWidth $v}}%"></div></div><span>{{$v}}%</span></div>
        {{end}}
      </div>
      <div class="insight-card">
        <div class="insight-title">Star Ratings Distribution</div>
        {{range $i, $v := .StarRatings.Values}}
        <div class="bar-row"><span class="bar-label">{{index $.StarRatings.Labels $i}}</span><div class="bar-track"><div class="bar-fill" style="width: {{barWidth $v}}%"></div></div><span>{{$v}}%</span></div>
        {{end}}
        <div style="font-size: 10px; color: #64748b; margin-top: 6px;">Average rating: {{stars .StarRatings.Average}}</div>
      </div>
    </div>

    <div class="card-row">
      <div class="insight-card">
        <div class="insight-title">Top Positive Themes</div>
        <div class="theme-list">{{range .PositiveThemes}}<span class="theme-tag">{{.}}</span>{{end}}</div>
        <div class="insight-title">Areas for Improvement</div>
        <div class="theme-list">{{range .NegativeThemes}}<span class="theme-tag negative">{{.}}</span>{{end}}</div>
      </div>
      <div class="insight-card">
        <div class="insight-title">Notable Customer Quotes</div>
        {{range .NotableQuotes}}<div class="quote">"{{.}}"</div>{{end}}
      </div>
    </div>

    <div class="card-row">
      <div class="insight-card">
        <div class="insight-title">Survey Questions Performance</div>
        <table class="questions-table"><tbody>
          {{range .TopQuestions}}<tr><td>{{.Question}}</td><td><span class="rating-stars">{{stars .Average}}</span> {{.Average}}</td></tr>{{end}}
        </tbody></table>
      </div>
      <div class="insight-card">
        <div class="insight-title">Key Recommendations</div>
        <div style="font-size: 11px;">{{.Recommendation}}</div>
      </div>
    </div>
  </div>

  <div class="page" style="page-break-before: always;">
    <div class="card-row">
      <div class="insight-card">
        <div class="insight-title">Sentiment Breakdown</div>
        <div class="breakdown">
          <div><span>Positive</span><strong>{{.Metrics.Overall.PositivePercentage}}% ({{index .Metrics.Audio.SentimentDistribution "Positive"}} reviews)</strong></div>
          <div><span>Neutral</span><strong>{{.Metrics.Overall.NeutralPercentage}}% ({{index .Metrics.Audio.SentimentDistribution "Neutral"}} reviews)</strong></div>
          <div><span>Negative</span><strong>{{.Metrics.Overall.NegativePercentage}}% ({{index .Metrics.Audio.SentimentDistribution "Negative"}} reviews)</strong></div>
        </div>
      </div>
      <div class="insight-card">
        <div class="insight-title">Feedback Distribution</div>
        <div class="breakdown">
          <div><span>Survey Responses</span><strong>{{.Metrics.Survey.TotalResponses}} ({{.Channels.SurveyPercent}}%)</strong></div>
          <div><span>Audio Feedback</span><strong>{{.Metrics.Audio.TotalFeedback}} ({{.Channels.AudioPercent}}%)</strong></div>
          <div><span>Total Feedback</span><strong>{{.Metrics.Overall.TotalFeedback}}</strong></div>
          <div><span>Avg Feedback Duration</span><strong>{{.AvgDuration}}</strong></div>
        </div>
      </div>
    </div>

    <div class="card-row">
      <div class="insight-card">
        <div class="insight-title">NPS Trend (4 Weeks)</div>
        {{range $i, $v := .NPSTrend.Values}}
        <div class="bar-row"><span class="bar-label">{{index $.NPSTrend.Labels $i}}</span><div class="bar-track"><div class="bar-fill" style="width: {{barWidth $v}}%"></div></div><span>{{$v}}</span></div>
        {{end}}
      </div>
      <div class="insight-card">
        <div class="insight-title">Next Steps</div>
        <div style="font-size: 11px; color: #64748b;">Focus on product quality improvements based on feedback</div>
        <div style="margin-top: 10px; font-size: 11px;"><strong>NPS Score: {{.NPSScore}}</strong></div>
      </div>
    </div>

    <div class="insight-card" style="background: #fef3c7; border-color: #f59e0b;">
      <div style="font-size: 9px; color: #92400e;">
        <strong>Disclaimer:</strong> This analysis is generated by AI based on transcript metadata and automated sentiment analysis. Results should be verified by human review for business-critical decisions.
      </div>
    </div>
  </div>
</body>
</html>
`

const headerHTMLTemplate = `<div style="width: 100%; font-family: 'Inter', sans-serif; background: #f8fafc; padding: 15px 20mm; box-sizing: border-box; border-bottom: 3px solid #3b82f6;">
  <div style="display: flex; justify-content: space-between; align-items: center;">
    <div>
      <div style="font-size: 14px; font-weight: 700; color: #1e293b;">{{.CompanyName}} Weekly Analytics Report</div>
      <div style="font-size: 9px; color: #64748b;">{{.CompanyCity}} | {{.CompanyIndustry}} Industry</div>
      <div style="font-size: 10px; color: #64748b;">Powered by InstaReview.ai</div>
    </div>
    <div style="text-align: right;">
      <div style="font-size: 11px; font-weight: 600; color: #3b82f6;">Week of {{.PeriodStart.Format "Jan 02"}} – {{.PeriodEnd.Format "Jan 02, 2006"}}</div>
      <div style="font-size: 9px; color: #64748b;">Generated on {{.GeneratedAt.Format "January 02, 2006"}}</div>
    </div>
  </div>
</div>`

const footerHTMLTemplate = `<div style="width: 100%; font-family: 'Inter', sans-serif; background: #1e293b; color: white; padding: 12px 20mm; box-sizing: border-box; border-top: 3px solid #3b82f6;">
  <div style="display: flex; justify-content: space-between; align-items: center;">
    <div style="font-size: 10px; font-weight: 500;">{{.CompanyName}} | Weekly Analytics Report</div>
    <div style="display: flex; align-items: center; gap: 12px;">
      <div style="font-size: 9px; color: #94a3b8;">InstaReview.ai Analytics</div>
      <div style="font-size: 10px; font-weight: 600;">Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>
    </div>
  </div>
</div>`

var templateFuncs = template.FuncMap{
	"stars":    starsMarkup,
	"barWidth": barWidth,
}

var (
	bodyTmpl   = template.Must(template.New("report").Funcs(templateFuncs).Parse(reportHTMLTemplate))
	headerTmpl = template.Must(template.New("header").Parse(headerHTMLTemplate))
	footerTmpl = template.Must(template.New("footer").Parse(footerHTMLTemplate))
)

// Document is the fully rendered report handed to the PDF renderer.
type Document struct {
	HTML   string
	Header string
	Footer string
}

// RenderHTML renders the full document for a report model, including the
// header/footer templates used by the renderer's page chrome.
func RenderHTML(model types.ReportModel) (Document, error) {
	var body, header, footer bytes.Buffer
	if err := bodyTmpl.Execute(&body, model); err != nil {
		return Document{}, fmt.Errorf("render body: %w", err)
	}
	if err := headerTmpl.Execute(&header, model); err != nil {
		return Document{}, fmt.Errorf("render header: %w", err)
	}
	if err := footerTmpl.Execute(&footer, model); err != nil {
		return Document{}, fmt.Errorf("render footer: %w", err)
	}
	return Document{HTML: body.String(), Header: header.String(), Footer: footer.String()}, nil
}

// starsMarkup renders a 0-5 rating as star glyphs, with half stars.
func starsMarkup(rating float64) string {
	full := int(math.Floor(rating))
	half := rating-float64(full) >= 0.5
	empty := 5 - full
	if half {
		empty--
	}
	var b strings.Builder
	b.WriteString(strings.Repeat("★", full))
	if half {
		b.WriteString("½")
	}
	b.WriteString(strings.Repeat("☆", empty))
	return b.String()
}

// barWidth clamps a chart value into a CSS percentage.
func barWidth(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
