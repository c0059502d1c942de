package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/guptahg47869-hub/casting-tracker/internal/casting/entity"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/repository"
	"github.com/redis/go-redis/v9"
)

const metalsCacheKey = "casting:metals"

// MetalService serves the metal catalog. The list is reference data hit by
// every page load, so it is cached in Redis when a client is configured.
type MetalService struct {
	metalRepo   *repository.MetalRepository
	reserveRepo *repository.ReserveRepository
	rdb         *redis.Client
}

func NewMetalService(metalRepo *repository.MetalRepository, reserveRepo *repository.ReserveRepository) *MetalService {
	return &MetalService{metalRepo: metalRepo, reserveRepo: reserveRepo}
}

// SetRedis injects the optional cache client.
func (s *MetalService) SetRedis(rdb *redis.Client) {
	s.rdb = rdb
}

// List returns the active metals, from cache when possible.
func (s *MetalService) List(ctx context.Context) ([]entity.Metal, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, metalsCacheKey).Bytes(); err == nil {
			var metals []entity.Metal
			if json.Unmarshal(cached, &metals) == nil {
				return metals, nil
			}
		}
	}

	metals, err := s.metalRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list metals: %w", err)
	}

	if s.rdb != nil {
		if data, err := json.Marshal(metals); err == nil {
			s.rdb.Set(ctx, metalsCacheKey, data, 10*time.Minute)
		}
	}
	return metals, nil
}

// Seed inserts the default metal catalog and a zero reserve per metal.
// Names drive the rule table, so they must carry the karat/color tokens.
func (s *MetalService) Seed(ctx context.Context) error {
	names := []string{
		"10K", "14W", "14Y", "14R", "18W", "18Y", "18R",
		"SILVER 925", "PLATINUM 950",
	}
	for _, name := range names {
		if err := s.metalRepo.Upsert(ctx, name); err != nil {
			return fmt.Errorf("seed metal %s: %w", name, err)
		}
	}

	metals, err := s.metalRepo.ListActive(ctx)
	if err != nil {
		return err
	}
	for _, m := range metals {
		if err := s.reserveRepo.Ensure(ctx, m.ID, m.Name); err != nil {
			return fmt.Errorf("seed reserve for %s: %w", m.Name, err)
		}
	}

	if s.rdb != nil {
		s.rdb.Del(ctx, metalsCacheKey)
	}
	return nil
}
