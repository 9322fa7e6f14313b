package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"vesselregistry/internal/vessel/metrics"
	"vesselregistry/internal/vessel/models"
	dErrors "vesselregistry/pkg/domain-errors"
	"vesselregistry/pkg/platform/sentinel"
	"vesselregistry/pkg/requestcontext"
)

// VesselStore is the persistence capability the registry depends on. Stores
// signal infrastructure facts with sentinel errors; the service translates
// them into the domain error taxonomy.
type VesselStore interface {
	CreateIfIMOAvailable(ctx context.Context, v *models.Vessel) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vessel, error)
	FindByIMONumber(ctx context.Context, imoNumber string) (*models.Vessel, error)
	Update(ctx context.Context, v *models.Vessel) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.Vessel, error)
	ListPage(ctx context.Context, params models.ListParams) (*models.VesselPage, error)
	FindByType(ctx context.Context, t models.VesselType) ([]models.Vessel, error)
	FindByStatus(ctx context.Context, status models.VesselStatus) ([]models.Vessel, error)
	FindByFlagState(ctx context.Context, flagState string) ([]models.Vessel, error)
	FindByFlagStateAndStatus(ctx context.Context, flagState string, status models.VesselStatus) ([]models.Vessel, error)
	FindByNameContaining(ctx context.Context, name string) ([]models.Vessel, error)
	FindByYearBuiltBetween(ctx context.Context, startYear, endYear int) ([]models.Vessel, error)
	FindByGrossTonnageGreaterThan(ctx context.Context, tonnage float64) ([]models.Vessel, error)
	CountByType(ctx context.Context, t models.VesselType) (int64, error)
}

// Service is the vessel registry. It owns the validation and uniqueness
// invariants, mediates every mutation, and defines the query surface. It
// holds no cross-request state; all durable state lives in the store.
type Service struct {
	vessels VesselStore
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(vessels VesselStore, opts ...Option) *Service {
	s := &Service{vessels: vessels}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Create validates the candidate, rejects duplicate IMO numbers, assigns an
// id and timestamps, and persists. A caller-supplied id is overwritten. The
// store's uniqueness constraint is the authoritative backstop for concurrent
// creates; the FindByIMONumber pre-check only provides a fast conflict reply.
func (s *Service) Create(ctx context.Context, candidate *models.Vessel) (*models.Vessel, error) {
	v := candidate.Clone()
	v.Name = strings.TrimSpace(v.Name)
	if err := v.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.vessels.FindByIMONumber(ctx, v.IMONumber); err == nil {
		return nil, dErrors.Newf(dErrors.CodeConflict, "vessel with IMO number %s already exists", v.IMONumber)
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check IMO number")
	}

	now := requestcontext.Now(ctx)
	v.ID = uuid.New()
	v.CreatedAt = now
	v.UpdatedAt = now
	if v.Status == "" {
		v.Status = models.StatusActive
	}

	if err := s.vessels.CreateIfIMOAvailable(ctx, v); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.Newf(dErrors.CodeConflict, "vessel with IMO number %s already exists", v.IMONumber)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create vessel")
	}

	s.logger.InfoContext(ctx, "vessel registered",
		"vessel_id", v.ID,
		"imo_number", v.IMONumber,
		"type", v.Type,
	)
	s.incrementCreated()
	return v, nil
}

// GetByID returns the vessel with the given id.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Vessel, error) {
	start := time.Now()
	v, err := s.vessels.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "vessel not found with id: %s", id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vessel")
	}
	s.observeLookup(start)
	return v, nil
}

// GetByIMONumber returns the vessel with the given IMO number.
func (s *Service) GetByIMONumber(ctx context.Context, imoNumber string) (*models.Vessel, error) {
	start := time.Now()
	v, err := s.vessels.FindByIMONumber(ctx, imoNumber)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "vessel not found with IMO number: %s", imoNumber)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vessel")
	}
	s.observeLookup(start)
	return v, nil
}

// List returns one page of vessels. Zero-value params default to the first
// page of ten, sorted by name ascending; an unknown sort field is a caller error.
func (s *Service) List(ctx context.Context, params models.ListParams) (*models.VesselPage, error) {
	if err := params.Normalize(); err != nil {
		return nil, err
	}
	page, err := s.vessels.ListPage(ctx, params)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list vessels")
	}
	return page, nil
}

// ListAll returns every live vessel without pagination.
func (s *Service) ListAll(ctx context.Context) ([]models.Vessel, error) {
	vessels, err := s.vessels.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list vessels")
	}
	return vessels, nil
}

// Update fully replaces the stored vessel's mutable fields. A changed IMO
// number is re-checked for uniqueness against other live records; a vessel
// keeping its own number never conflicts with itself. ID and CreatedAt are
// preserved.
func (s *Service) Update(ctx context.Context, id uuid.UUID, replacement *models.Vessel) (*models.Vessel, error) {
	r := replacement.Clone()
	r.Name = strings.TrimSpace(r.Name)
	if r.Status == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "status is required")
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	current, err := s.vessels.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "vessel not found with id: %s", id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vessel")
	}

	if r.IMONumber != current.IMONumber {
		holder, err := s.vessels.FindByIMONumber(ctx, r.IMONumber)
		if err == nil && holder.ID != id {
			return nil, dErrors.Newf(dErrors.CodeConflict, "vessel with IMO number %s already exists", r.IMONumber)
		}
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check IMO number")
		}
	}

	current.ApplyReplacement(r, requestcontext.Now(ctx))
	if err := s.vessels.Update(ctx, current); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.Newf(dErrors.CodeConflict, "vessel with IMO number %s already exists", r.IMONumber)
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "vessel not found with id: %s", id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update vessel")
	}

	s.logger.InfoContext(ctx, "vessel updated",
		"vessel_id", current.ID,
		"imo_number", current.IMONumber,
	)
	return current, nil
}

// UpdateStatus sets only the status and the update timestamp. Any status is
// reachable from any other; there is no transition adjacency rule.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status models.VesselStatus) (*models.Vessel, error) {
	if !status.Valid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown vessel status %q", string(status))
	}

	current, err := s.vessels.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "vessel not found with id: %s", id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vessel")
	}

	current.ApplyStatus(status, requestcontext.Now(ctx))
	if err := s.vessels.Update(ctx, current); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "vessel not found with id: %s", id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update vessel status")
	}

	s.logger.InfoContext(ctx, "vessel status changed",
		"vessel_id", current.ID,
		"status", status,
	)
	return current, nil
}

// Delete removes the vessel permanently. A second delete reports NotFound.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.vessels.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "vessel not found with id: %s", id)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete vessel")
	}
	s.logger.InfoContext(ctx, "vessel deleted", "vessel_id", id)
	s.incrementDeleted()
	return nil
}

func (s *Service) incrementCreated() {
	if s.metrics != nil {
		s.metrics.IncrementVesselCreated()
	}
}

func (s *Service) incrementDeleted() {
	if s.metrics != nil {
		s.metrics.IncrementVesselDeleted()
	}
}

func (s *Service) observeLookup(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveLookup(start)
	}
}
