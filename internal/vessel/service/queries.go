package service

import (
	"context"

	"vesselregistry/internal/vessel/models"
	dErrors "vesselregistry/pkg/domain-errors"
)

// Query operations. Each filter is an independent query; only the flag
// state + status pair is a defined joint filter.

// FindByType returns all vessels of the given type.
func (s *Service) FindByType(ctx context.Context, t models.VesselType) ([]models.Vessel, error) {
	if !t.Valid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown vessel type %q", string(t))
	}
	vessels, err := s.vessels.FindByType(ctx, t)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to query vessels by type")
	}
	return vessels, nil
}

// FindByStatus returns all vessels with the given status.
func (s *Service) FindByStatus(ctx context.Context, status models.VesselStatus) ([]models.Vessel, error) {
	if !status.Valid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown vessel status %q", string(status))
	}
	vessels, err := s.vessels.FindByStatus(ctx, status)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to query vessels by status")
	}
	return vessels, nil
}

// FindByFlagState returns all vessels registered under the given flag state.
func (s *Service) FindByFlagState(ctx context.Context, flagState string) ([]models.Vessel, error) {
	if flagState == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "flag state is required")
	}
	vessels, err := s.vessels.FindByFlagState(ctx, flagState)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to query vessels by flag state")
	}
	return vessels, nil
}

// FindByFlagStateAndStatus returns vessels matching both filters.
func (s *Service) FindByFlagStateAndStatus(ctx context.Context, flagState string, status models.VesselStatus) ([]models.Vessel, error) {
	if flagState == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "flag state is required")
	}
	if !status.Valid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown vessel status %q", string(status))
	}
	vessels, err := s.vessels.FindByFlagStateAndStatus(ctx, flagState, status)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to query vessels by flag state and status")
	}
	return vessels, nil
}

// SearchByName returns vessels whose name contains the given substring.
// Matching is case-sensitive and unanchored. The empty substring is rejected
// rather than matching every vessel; unfiltered listing goes through List.
func (s *Service) SearchByName(ctx context.Context, name string) ([]models.Vessel, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	vessels, err := s.vessels.FindByNameContaining(ctx, name)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search vessels by name")
	}
	return vessels, nil
}

// FindByYearBuiltBetween returns vessels built within [startYear, endYear], inclusive.
func (s *Service) FindByYearBuiltBetween(ctx context.Context, startYear, endYear int) ([]models.Vessel, error) {
	if startYear > endYear {
		return nil, dErrors.New(dErrors.CodeValidation, "start year must not exceed end year")
	}
	vessels, err := s.vessels.FindByYearBuiltBetween(ctx, startYear, endYear)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to query vessels by year built")
	}
	return vessels, nil
}

// FindByGrossTonnageGreaterThan returns vessels with tonnage strictly above the threshold.
func (s *Service) FindByGrossTonnageGreaterThan(ctx context.Context, tonnage float64) ([]models.Vessel, error) {
	vessels, err := s.vessels.FindByGrossTonnageGreaterThan(ctx, tonnage)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to query vessels by tonnage")
	}
	return vessels, nil
}

// CountByType returns the number of live vessels of the given type.
func (s *Service) CountByType(ctx context.Context, t models.VesselType) (int64, error) {
	if !t.Valid() {
		return 0, dErrors.Newf(dErrors.CodeValidation, "unknown vessel type %q", string(t))
	}
	n, err := s.vessels.CountByType(ctx, t)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count vessels by type")
	}
	return n, nil
}
