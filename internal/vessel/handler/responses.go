package handler

import (
	"time"

	"github.com/google/uuid"

	"vesselregistry/internal/vessel/models"
)

// VesselResponse is the wire shape of a single vessel.
type VesselResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	IMONumber        string     `json:"imo_number"`
	Type             string     `json:"type"`
	FlagState        string     `json:"flag_state"`
	YearBuilt        *int       `json:"year_built,omitempty"`
	LengthMeters     *float64   `json:"length_meters,omitempty"`
	GrossTonnage     *float64   `json:"gross_tonnage,omitempty"`
	Status           string     `json:"status"`
	LastPortOfCall   string     `json:"last_port_of_call,omitempty"`
	NextPortOfCall   string     `json:"next_port_of_call,omitempty"`
	EstimatedArrival *time.Time `json:"estimated_arrival,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// FromVessel converts a domain vessel to its wire shape.
func FromVessel(v *models.Vessel) *VesselResponse {
	return &VesselResponse{
		ID:               v.ID,
		Name:             v.Name,
		IMONumber:        v.IMONumber,
		Type:             string(v.Type),
		FlagState:        v.FlagState,
		YearBuilt:        v.YearBuilt,
		LengthMeters:     v.LengthMeters,
		GrossTonnage:     v.GrossTonnage,
		Status:           string(v.Status),
		LastPortOfCall:   v.LastPortOfCall,
		NextPortOfCall:   v.NextPortOfCall,
		EstimatedArrival: v.EstimatedArrival,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}

// FromVessels converts a slice of domain vessels. Always returns a non-nil
// slice so empty results serialize as [].
func FromVessels(vessels []models.Vessel) []*VesselResponse {
	out := make([]*VesselResponse, 0, len(vessels))
	for i := range vessels {
		out = append(out, FromVessel(&vessels[i]))
	}
	return out
}

// PageResponse is the wire shape of a paginated listing.
type PageResponse struct {
	Vessels    []*VesselResponse `json:"vessels"`
	Page       int               `json:"page"`
	Size       int               `json:"size"`
	TotalCount int64             `json:"total_count"`
}

// FromPage converts a domain page to its wire shape.
func FromPage(p *models.VesselPage) *PageResponse {
	return &PageResponse{
		Vessels:    FromVessels(p.Vessels),
		Page:       p.Page,
		Size:       p.Size,
		TotalCount: p.TotalCount,
	}
}

// CountResponse is the wire shape of the count-by-type statistic.
type CountResponse struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}
