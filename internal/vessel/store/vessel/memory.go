package vessel

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"vesselregistry/internal/vessel/models"
	"vesselregistry/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded vessel store for tests and local development.
// It mirrors the Postgres store's contract, including IMO number uniqueness
// enforced under the lock.
type InMemory struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*models.Vessel
	imoToID map[string]uuid.UUID
}

// NewInMemory constructs an empty in-memory vessel store.
func NewInMemory() *InMemory {
	return &InMemory{
		byID:    make(map[uuid.UUID]*models.Vessel),
		imoToID: make(map[string]uuid.UUID),
	}
}

// CreateIfIMOAvailable inserts v unless its IMO number is already taken.
// Returns sentinel.ErrAlreadyUsed on a uniqueness violation.
func (s *InMemory) CreateIfIMOAvailable(_ context.Context, v *models.Vessel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.imoToID[v.IMONumber]; taken {
		return sentinel.ErrAlreadyUsed
	}
	s.byID[v.ID] = v.Clone()
	s.imoToID[v.IMONumber] = v.ID
	return nil
}

// FindByID returns the vessel with the given id or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Vessel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return v.Clone(), nil
}

// FindByIMONumber returns the vessel with the given IMO number or sentinel.ErrNotFound.
func (s *InMemory) FindByIMONumber(_ context.Context, imoNumber string) (*models.Vessel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.imoToID[imoNumber]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.byID[id].Clone(), nil
}

// Update replaces the stored vessel, re-keying the IMO index when the number
// changed. Returns sentinel.ErrAlreadyUsed if the new number belongs to a
// different vessel, sentinel.ErrNotFound if the id is unknown.
func (s *InMemory) Update(_ context.Context, v *models.Vessel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.byID[v.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if v.IMONumber != current.IMONumber {
		if holder, taken := s.imoToID[v.IMONumber]; taken && holder != v.ID {
			return sentinel.ErrAlreadyUsed
		}
		delete(s.imoToID, current.IMONumber)
		s.imoToID[v.IMONumber] = v.ID
	}
	s.byID[v.ID] = v.Clone()
	return nil
}

// Delete removes the vessel permanently. Returns sentinel.ErrNotFound if absent.
func (s *InMemory) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.byID[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.imoToID, v.IMONumber)
	delete(s.byID, id)
	return nil
}

// List returns every live vessel in unspecified order.
func (s *InMemory) List(_ context.Context) ([]models.Vessel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Vessel, 0, len(s.byID))
	for _, v := range s.byID {
		out = append(out, *v.Clone())
	}
	return out, nil
}

// ListPage returns one sorted page of vessels plus the total live count.
// Params must already be normalized by the service.
func (s *InMemory) ListPage(_ context.Context, params models.ListParams) (*models.VesselPage, error) {
	s.mu.RLock()
	all := make([]models.Vessel, 0, len(s.byID))
	for _, v := range s.byID {
		all = append(all, *v.Clone())
	}
	s.mu.RUnlock()

	// Ties on the sort key fall back to id ascending regardless of direction,
	// matching the postgres store's ORDER BY tiebreak so paging is stable.
	sort.SliceStable(all, func(i, j int) bool {
		less, tied := compareVessels(&all[i], &all[j], params.SortBy)
		if tied {
			return lessID(all[i].ID, all[j].ID)
		}
		if params.SortDir == models.SortDesc {
			return !less
		}
		return less
	})

	start := params.Page * params.Size
	end := start + params.Size
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}
	return &models.VesselPage{
		Vessels:    all[start:end],
		Page:       params.Page,
		Size:       params.Size,
		TotalCount: int64(len(all)),
	}, nil
}

// compareVessels orders a against b on the given field. The second return is
// false when the field values tie.
func compareVessels(a, b *models.Vessel, field string) (less, tied bool) {
	switch field {
	case "imo_number":
		return a.IMONumber < b.IMONumber, a.IMONumber == b.IMONumber
	case "type":
		return a.Type < b.Type, a.Type == b.Type
	case "flag_state":
		return a.FlagState < b.FlagState, a.FlagState == b.FlagState
	case "year_built":
		return lessIntPtr(a.YearBuilt, b.YearBuilt)
	case "gross_tonnage":
		return lessFloatPtr(a.GrossTonnage, b.GrossTonnage)
	case "status":
		return a.Status < b.Status, a.Status == b.Status
	case "created_at":
		return a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
	case "updated_at":
		return a.UpdatedAt.Before(b.UpdatedAt), a.UpdatedAt.Equal(b.UpdatedAt)
	default:
		return a.Name < b.Name, a.Name == b.Name
	}
}

// Nil sorts after any value, matching the SQL default of NULLS LAST on
// ascending order.
func lessIntPtr(a, b *int) (less, tied bool) {
	if a == nil || b == nil {
		return b == nil && a != nil, a == b
	}
	return *a < *b, *a == *b
}

func lessFloatPtr(a, b *float64) (less, tied bool) {
	if a == nil || b == nil {
		return b == nil && a != nil, a == b
	}
	return *a < *b, *a == *b
}

func lessID(a, b uuid.UUID) bool {
	return a.String() < b.String()
}

// FindByType returns all vessels of the given type.
func (s *InMemory) FindByType(_ context.Context, t models.VesselType) ([]models.Vessel, error) {
	return s.filter(func(v *models.Vessel) bool { return v.Type == t }), nil
}

// FindByStatus returns all vessels with the given status.
func (s *InMemory) FindByStatus(_ context.Context, status models.VesselStatus) ([]models.Vessel, error) {
	return s.filter(func(v *models.Vessel) bool { return v.Status == status }), nil
}

// FindByFlagState returns all vessels registered under the given flag state.
func (s *InMemory) FindByFlagState(_ context.Context, flagState string) ([]models.Vessel, error) {
	return s.filter(func(v *models.Vessel) bool { return v.FlagState == flagState }), nil
}

// FindByFlagStateAndStatus returns vessels matching both filters.
func (s *InMemory) FindByFlagStateAndStatus(_ context.Context, flagState string, status models.VesselStatus) ([]models.Vessel, error) {
	return s.filter(func(v *models.Vessel) bool {
		return v.FlagState == flagState && v.Status == status
	}), nil
}

// FindByNameContaining returns vessels whose name contains the substring,
// case-sensitively and unanchored.
func (s *InMemory) FindByNameContaining(_ context.Context, name string) ([]models.Vessel, error) {
	return s.filter(func(v *models.Vessel) bool { return strings.Contains(v.Name, name) }), nil
}

// FindByYearBuiltBetween returns vessels built within [startYear, endYear].
func (s *InMemory) FindByYearBuiltBetween(_ context.Context, startYear, endYear int) ([]models.Vessel, error) {
	return s.filter(func(v *models.Vessel) bool {
		return v.YearBuilt != nil && *v.YearBuilt >= startYear && *v.YearBuilt <= endYear
	}), nil
}

// FindByGrossTonnageGreaterThan returns vessels with tonnage strictly above the threshold.
func (s *InMemory) FindByGrossTonnageGreaterThan(_ context.Context, tonnage float64) ([]models.Vessel, error) {
	return s.filter(func(v *models.Vessel) bool {
		return v.GrossTonnage != nil && *v.GrossTonnage > tonnage
	}), nil
}

// CountByType returns the number of live vessels of the given type.
func (s *InMemory) CountByType(_ context.Context, t models.VesselType) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, v := range s.byID {
		if v.Type == t {
			n++
		}
	}
	return n, nil
}

func (s *InMemory) filter(keep func(*models.Vessel) bool) []models.Vessel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Vessel
	for _, v := range s.byID {
		if keep(v) {
			out = append(out, *v.Clone())
		}
	}
	return out
}
