package company

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"instareview-reports-go/internal/logger"
	"instareview-reports-go/internal/types"
)

// Client looks up company profile attributes from the details API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 12 * time.Second},
	}
}

// Details returns nil when the lookup fails for any reason; callers fall
// back to Unknown display values rather than aborting the report.
func (c *Client) Details(ctx context.Context, companyID string, log *logger.Logger) *types.CompanyProfile {
	if c.baseURL == "" {
		log.Warn("COMPANY_DETAILS_URL not configured, using fallback company details")
		return nil
	}

	endpoint := fmt.Sprintf("%s?companyId=%s", c.baseURL, url.QueryEscape(companyID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.WithError(err).Error("build company details request failed")
		return nil
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Error("company details request failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.WithField("status", resp.StatusCode).Warn("company details API returned non-200")
		return nil
	}

	var profile types.CompanyProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		log.WithError(err).Error("decode company details failed")
		return nil
	}
	if profile.ID == "" {
		profile.ID = companyID
	}
	log.WithField("company_name", profile.CompanyName).Info("company details fetched")
	return &profile
}
