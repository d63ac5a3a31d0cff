package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"instareview-reports-go/internal/logger"
	"instareview-reports-go/internal/types"
)

// Client fetches raw customer-feedback records from the reviews API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 12 * time.Second},
	}
}

// Fetch returns every record for one company. Transient network faults are
// retried with bounded exponential backoff; a final failure is returned to
// the caller, which degrades to an empty record set.
func (c *Client) Fetch(ctx context.Context, companyID string, log *logger.Logger) ([]types.FeedbackRecord, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("REVIEWS_URL not configured")
	}

	endpoint := fmt.Sprintf("%s?companyId=%s", c.baseURL, url.QueryEscape(companyID))

	var records []types.FeedbackRecord
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			log.WithError(err).Warn("reviews API request failed, retrying")
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("reviews API returned status %d", resp.StatusCode)
			if resp.StatusCode >= 500 {
				log.WithError(err).Warn("reviews API server error, retrying")
				return err
			}
			return backoff.Permanent(err)
		}

		if err := json.Unmarshal(body, &records); err != nil {
			return backoff.Permanent(fmt.Errorf("decode reviews response: %w", err))
		}
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, err
	}

	log.WithField("count", len(records)).Info("fetched customer feedback records")
	return records, nil
}
