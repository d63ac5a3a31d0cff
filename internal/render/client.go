package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"instareview-reports-go/internal/logger"
	"instareview-reports-go/internal/report"
)

// Margins and page layout passed to the headless renderer. These mirror
// the print settings the report stylesheet is designed for.
type pageOptions struct {
	Format              string `json:"format"`
	PrintBackground     bool   `json:"printBackground"`
	DisplayHeaderFooter bool   `json:"displayHeaderFooter"`
	MarginTop           string `json:"marginTop"`
	MarginBottom        string `json:"marginBottom"`
	MarginLeft          string `json:"marginLeft"`
	MarginRight         string `json:"marginRight"`
}

type renderRequest struct {
	HTML           string      `json:"html"`
	HeaderTemplate string      `json:"headerTemplate"`
	FooterTemplate string      `json:"footerTemplate"`
	Options        pageOptions `json:"options"`
}

// Client talks to the headless-browser rendering service. The service is a
// black box: HTML plus layout in, PDF bytes out.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// RenderPDF rasterizes the document and returns the PDF byte stream.
func (c *Client) RenderPDF(ctx context.Context, doc report.Document, log *logger.Logger) ([]byte, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("RENDERER_URL not configured")
	}

	payload, err := json.Marshal(renderRequest{
		HTML:           doc.HTML,
		HeaderTemplate: doc.Header,
		FooterTemplate: doc.Footer,
		Options: pageOptions{
			Format:              "A4",
			PrintBackground:     true,
			DisplayHeaderFooter: true,
			MarginTop:           "25mm",
			MarginBottom:        "22mm",
			MarginLeft:          "15mm",
			MarginRight:         "15mm",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode render request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Error("renderer request failed")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("renderer returned status %d: %s", resp.StatusCode, string(body))
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read rendered PDF: %w", err)
	}
	log.WithField("duration_ms", time.Since(start).Milliseconds()).WithField("bytes", len(pdf)).Info("PDF rendered")
	return pdf, nil
}
