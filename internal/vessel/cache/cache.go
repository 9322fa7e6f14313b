// Package cache provides a Redis read-through decorator over a vessel store.
// Lookups by id and IMO number are served from cache when possible; every
// mutation invalidates the affected keys. Cache failures degrade to the
// underlying store and never fail the request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"vesselregistry/internal/vessel/metrics"
	"vesselregistry/internal/vessel/models"
	"vesselregistry/internal/vessel/service"
)

// Store decorates a VesselStore with Redis caching for point lookups.
// List and filter queries pass through uncached; their result sets change
// with every mutation and are not on the hot path.
type Store struct {
	inner   service.VesselStore
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

var _ service.VesselStore = (*Store)(nil)

// New wraps inner with a Redis read-through cache.
func New(inner service.VesselStore, client *redis.Client, ttl time.Duration, logger *slog.Logger, m *metrics.Metrics) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{inner: inner, client: client, ttl: ttl, logger: logger, metrics: m}
}

func idKey(id uuid.UUID) string      { return "vessel:id:" + id.String() }
func imoKey(imoNumber string) string { return "vessel:imo:" + imoNumber }

// FindByID serves from cache when possible, falling back to the inner store
// and populating the cache on a miss.
func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*models.Vessel, error) {
	if v, ok := s.get(ctx, idKey(id), "id"); ok {
		return v, nil
	}
	v, err := s.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.put(ctx, v)
	return v, nil
}

// FindByIMONumber serves from cache when possible, falling back to the inner
// store and populating the cache on a miss.
func (s *Store) FindByIMONumber(ctx context.Context, imoNumber string) (*models.Vessel, error) {
	if v, ok := s.get(ctx, imoKey(imoNumber), "imo"); ok {
		return v, nil
	}
	v, err := s.inner.FindByIMONumber(ctx, imoNumber)
	if err != nil {
		return nil, err
	}
	s.put(ctx, v)
	return v, nil
}

// CreateIfIMOAvailable delegates to the inner store. Nothing to invalidate:
// a fresh vessel cannot be cached yet, and negative lookups are not cached.
func (s *Store) CreateIfIMOAvailable(ctx context.Context, v *models.Vessel) error {
	return s.inner.CreateIfIMOAvailable(ctx, v)
}

// Update delegates, then drops both the id key and the IMO keys. The prior
// IMO number's key must go too in case the update re-keyed the vessel.
func (s *Store) Update(ctx context.Context, v *models.Vessel) error {
	prior, priorErr := s.inner.FindByID(ctx, v.ID)
	if err := s.inner.Update(ctx, v); err != nil {
		return err
	}
	keys := []string{idKey(v.ID), imoKey(v.IMONumber)}
	if priorErr == nil && prior.IMONumber != v.IMONumber {
		keys = append(keys, imoKey(prior.IMONumber))
	}
	s.invalidate(ctx, keys...)
	return nil
}

// Delete delegates, then drops the vessel's cache keys.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	prior, priorErr := s.inner.FindByID(ctx, id)
	if err := s.inner.Delete(ctx, id); err != nil {
		return err
	}
	keys := []string{idKey(id)}
	if priorErr == nil {
		keys = append(keys, imoKey(prior.IMONumber))
	}
	s.invalidate(ctx, keys...)
	return nil
}

func (s *Store) List(ctx context.Context) ([]models.Vessel, error) {
	return s.inner.List(ctx)
}

func (s *Store) ListPage(ctx context.Context, params models.ListParams) (*models.VesselPage, error) {
	return s.inner.ListPage(ctx, params)
}

func (s *Store) FindByType(ctx context.Context, t models.VesselType) ([]models.Vessel, error) {
	return s.inner.FindByType(ctx, t)
}

func (s *Store) FindByStatus(ctx context.Context, status models.VesselStatus) ([]models.Vessel, error) {
	return s.inner.FindByStatus(ctx, status)
}

func (s *Store) FindByFlagState(ctx context.Context, flagState string) ([]models.Vessel, error) {
	return s.inner.FindByFlagState(ctx, flagState)
}

func (s *Store) FindByFlagStateAndStatus(ctx context.Context, flagState string, status models.VesselStatus) ([]models.Vessel, error) {
	return s.inner.FindByFlagStateAndStatus(ctx, flagState, status)
}

func (s *Store) FindByNameContaining(ctx context.Context, name string) ([]models.Vessel, error) {
	return s.inner.FindByNameContaining(ctx, name)
}

func (s *Store) FindByYearBuiltBetween(ctx context.Context, startYear, endYear int) ([]models.Vessel, error) {
	return s.inner.FindByYearBuiltBetween(ctx, startYear, endYear)
}

func (s *Store) FindByGrossTonnageGreaterThan(ctx context.Context, tonnage float64) ([]models.Vessel, error) {
	return s.inner.FindByGrossTonnageGreaterThan(ctx, tonnage)
}

func (s *Store) CountByType(ctx context.Context, t models.VesselType) (int64, error) {
	return s.inner.CountByType(ctx, t)
}

func (s *Store) get(ctx context.Context, key, kind string) (*models.Vessel, bool) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WarnContext(ctx, "vessel cache read failed", "key", key, "error", err)
		}
		s.recordMiss(kind)
		return nil, false
	}
	var v models.Vessel
	if err := json.Unmarshal(raw, &v); err != nil {
		s.logger.WarnContext(ctx, "vessel cache entry corrupt", "key", key, "error", err)
		s.invalidate(ctx, key)
		s.recordMiss(kind)
		return nil, false
	}
	s.recordHit(kind)
	return &v, true
}

func (s *Store) put(ctx context.Context, v *models.Vessel) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.WarnContext(ctx, "vessel cache marshal failed", "vessel_id", v.ID, "error", err)
		return
	}
	pipe := s.client.Pipeline()
	pipe.Set(ctx, idKey(v.ID), raw, s.ttl)
	pipe.Set(ctx, imoKey(v.IMONumber), raw, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.WarnContext(ctx, "vessel cache write failed", "vessel_id", v.ID, "error", err)
	}
}

func (s *Store) invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.logger.WarnContext(ctx, "vessel cache invalidation failed",
			"keys", fmt.Sprintf("%v", keys), "error", err)
	}
}

func (s *Store) recordHit(kind string) {
	if s.metrics != nil {
		s.metrics.RecordCacheHit(kind)
	}
}

func (s *Store) recordMiss(kind string) {
	if s.metrics != nil {
		s.metrics.RecordCacheMiss(kind)
	}
}
