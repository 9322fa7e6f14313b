package handler

import (
	"strings"
	"time"

	"vesselregistry/internal/vessel/models"
	dErrors "vesselregistry/pkg/domain-errors"
)

// VesselRequest is the HTTP request body for POST /api/vessels and
// PUT /api/vessels/{id}. For updates the body is a full replacement: omitted
// optional fields clear the stored values.
type VesselRequest struct {
	Name             string     `json:"name"`
	IMONumber        string     `json:"imo_number"`
	Type             string     `json:"type"`
	FlagState        string     `json:"flag_state"`
	YearBuilt        *int       `json:"year_built"`
	LengthMeters     *float64   `json:"length_meters"`
	GrossTonnage     *float64   `json:"gross_tonnage"`
	Status           string     `json:"status"`
	LastPortOfCall   string     `json:"last_port_of_call"`
	NextPortOfCall   string     `json:"next_port_of_call"`
	EstimatedArrival *time.Time `json:"estimated_arrival"`

	// Parsed candidate (populated by Validate)
	vessel *models.Vessel
}

// Validate normalizes and parses the request into a vessel candidate.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
// Field-level constraints are the entity's concern; this only rejects
// enum values that cannot parse at all.
func (r *VesselRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	v := &models.Vessel{
		Name:             strings.TrimSpace(r.Name),
		IMONumber:        strings.TrimSpace(r.IMONumber),
		Type:             models.VesselType(strings.TrimSpace(r.Type)),
		FlagState:        strings.TrimSpace(r.FlagState),
		YearBuilt:        r.YearBuilt,
		LengthMeters:     r.LengthMeters,
		GrossTonnage:     r.GrossTonnage,
		Status:           models.VesselStatus(strings.TrimSpace(r.Status)),
		LastPortOfCall:   strings.TrimSpace(r.LastPortOfCall),
		NextPortOfCall:   strings.TrimSpace(r.NextPortOfCall),
		EstimatedArrival: r.EstimatedArrival,
	}
	if err := v.Validate(); err != nil {
		return err
	}
	r.vessel = v
	return nil
}

// Vessel returns the validated candidate.
func (r *VesselRequest) Vessel() *models.Vessel {
	return r.vessel
}

// StatusUpdateRequest is the body for PATCH /api/vessels/{id}/status.
type StatusUpdateRequest struct {
	Status string `json:"status"`

	parsedStatus models.VesselStatus
}

// Validate parses the status, rejecting unknown enum values.
func (r *StatusUpdateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	status, err := models.ParseVesselStatus(strings.TrimSpace(r.Status))
	if err != nil {
		return err
	}
	r.parsedStatus = status
	return nil
}

// ParsedStatus returns the validated status.
func (r *StatusUpdateRequest) ParsedStatus() models.VesselStatus {
	return r.parsedStatus
}
