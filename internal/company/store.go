package company

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	redis "github.com/redis/go-redis/v9"
	"instareview-reports-go/internal/logger"
	"instareview-reports-go/internal/types"
)

const keyPrefix = "companies:"

// Store is the company registry held in the key-value store. The batch
// driver lists every company from here; profiles are stored as JSON under
// companies:<id>.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, companyID string) (*types.CompanyProfile, error) {
	raw, err := s.client.Get(ctx, keyPrefix+companyID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get company %s: %w", companyID, err)
	}

	var profile types.CompanyProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("decode company %s: %w", companyID, err)
	}
	return &profile, nil
}

func (s *Store) Put(ctx context.Context, profile types.CompanyProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode company %s: %w", profile.ID, err)
	}
	if err := s.client.Set(ctx, keyPrefix+profile.ID, raw, 0).Err(); err != nil {
		return fmt.Errorf("put company %s: %w", profile.ID, err)
	}
	return nil
}

// Details adapts the store to the pipeline's profile lookup: a miss or a
// store error yields nil and the report falls back to Unknown values.
func (s *Store) Details(ctx context.Context, companyID string, log *logger.Logger) *types.CompanyProfile {
	profile, err := s.Get(ctx, companyID)
	if err != nil {
		log.WithError(err).Warn("company store lookup failed, using fallback company details")
		return nil
	}
	return profile
}

// List scans the registry and returns every company profile, most recently
// updated first.
func (s *Store) List(ctx context.Context) ([]types.CompanyProfile, error) {
	var companies []types.CompanyProfile

	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		raw, err := s.client.Get(ctx, iter.Val()).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("list companies: %w", err)
		}
		var profile types.CompanyProfile
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			// A malformed registry entry should not sink the batch.
			continue
		}
		companies = append(companies, profile)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan companies: %w", err)
	}

	sort.Slice(companies, func(i, j int) bool {
		return companies[i].DateUpdated > companies[j].DateUpdated
	})
	return companies, nil
}
