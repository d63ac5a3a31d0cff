package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"instareview-reports-go/internal/types"
)

func TestRenderHTML(t *testing.T) {
	profile := &types.CompanyProfile{CompanyName: "Taco Corner", City: "Austin", Industry: "FNB"}
	period, _ := ResolvePeriod("2025-09-01", "2025-09-07", genTime())
	model := BuildModel(metricsFixture(), profile, nil, period, genTime())

	doc, err := RenderHTML(model)
	require.NoError(t, err)

	assert.Contains(t, doc.HTML, "Taco Corner Weekly Analytics Report")
	assert.Contains(t, doc.HTML, "Customer mentioned: great service")
	assert.Contains(t, doc.HTML, "NPS Score")
	assert.Contains(t, doc.Header, "Austin | FNB Industry")
	assert.Contains(t, doc.Header, "Week of Sep 01")
	assert.Contains(t, doc.Footer, "pageNumber")
}

func TestRenderHTMLEmptyModel(t *testing.T) {
	period, _ := ResolvePeriod("", "", genTime())
	model := BuildModel(types.AggregatedMetrics{}, nil, nil, period, time.Now())

	doc, err := RenderHTML(model)
	require.NoError(t, err)
	assert.Contains(t, doc.HTML, "Unknown Company")
}

func TestStarsMarkup(t *testing.T) {
	assert.Equal(t, "★★★★★", starsMarkup(5))
	assert.Equal(t, "★★★½☆", starsMarkup(3.5))
	assert.Equal(t, "★★★☆☆", starsMarkup(3.2))
	assert.Equal(t, "☆☆☆☆☆", starsMarkup(0))
}

func TestBarWidth(t *testing.T) {
	assert.Equal(t, 0, barWidth(-4))
	assert.Equal(t, 60, barWidth(60))
	assert.Equal(t, 100, barWidth(112))
}
