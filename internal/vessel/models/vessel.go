package models

import (
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "vesselregistry/pkg/domain-errors"
)

// Field length and range constraints. Lengths count characters, not bytes.
const (
	MaxNameLength      = 100
	MaxFlagStateLength = 50
	MaxPortNameLength  = 100
	MinYearBuilt       = 1900
	MaxYearBuilt       = 2030
)

var imoNumberPattern = regexp.MustCompile(`^IMO\d{7}$`)

// Vessel is the registry's sole aggregate.
//
// Invariants:
//   - IMONumber matches "IMO" + 7 digits and is unique across all live records
//   - Name and FlagState are non-blank and length-bounded
//   - Type and Status are members of their closed enumerations
//   - CreatedAt is immutable after creation; UpdatedAt refreshes on every mutation
//   - CreatedAt <= UpdatedAt
//
// Uniqueness of IMONumber is enforced at the service layer (fast-path check)
// and backstopped by the store's unique constraint, so the invariant holds
// under concurrent creates and updates.
type Vessel struct {
	ID               uuid.UUID    `json:"id"`
	Name             string       `json:"name"`
	IMONumber        string       `json:"imo_number"`
	Type             VesselType   `json:"type"`
	FlagState        string       `json:"flag_state"`
	YearBuilt        *int         `json:"year_built,omitempty"`
	LengthMeters     *float64     `json:"length_meters,omitempty"`
	GrossTonnage     *float64     `json:"gross_tonnage,omitempty"`
	Status           VesselStatus `json:"status"`
	LastPortOfCall   string       `json:"last_port_of_call,omitempty"`
	NextPortOfCall   string       `json:"next_port_of_call,omitempty"`
	EstimatedArrival *time.Time   `json:"estimated_arrival,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// Validate checks every field-level constraint. It has no side effects and
// does not consult the store; uniqueness is the service's concern.
// Status may be empty here: create defaults it to active before persisting.
func (v *Vessel) Validate() error {
	if v.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "vessel name is required")
	}
	if utf8.RuneCountInString(v.Name) > MaxNameLength {
		return dErrors.Newf(dErrors.CodeValidation, "vessel name must not exceed %d characters", MaxNameLength)
	}
	if v.IMONumber == "" {
		return dErrors.New(dErrors.CodeValidation, "IMO number is required")
	}
	if !imoNumberPattern.MatchString(v.IMONumber) {
		return dErrors.New(dErrors.CodeValidation, "IMO number must be in format IMO followed by 7 digits")
	}
	if v.Type == "" {
		return dErrors.New(dErrors.CodeValidation, "vessel type is required")
	}
	if !v.Type.Valid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown vessel type %q", string(v.Type))
	}
	if v.FlagState == "" {
		return dErrors.New(dErrors.CodeValidation, "flag state is required")
	}
	if utf8.RuneCountInString(v.FlagState) > MaxFlagStateLength {
		return dErrors.Newf(dErrors.CodeValidation, "flag state must not exceed %d characters", MaxFlagStateLength)
	}
	if v.YearBuilt != nil && (*v.YearBuilt < MinYearBuilt || *v.YearBuilt > MaxYearBuilt) {
		return dErrors.Newf(dErrors.CodeValidation, "year built must be between %d and %d", MinYearBuilt, MaxYearBuilt)
	}
	if v.LengthMeters != nil && *v.LengthMeters < 0 {
		return dErrors.New(dErrors.CodeValidation, "length must not be negative")
	}
	if v.GrossTonnage != nil && *v.GrossTonnage < 0 {
		return dErrors.New(dErrors.CodeValidation, "gross tonnage must not be negative")
	}
	if v.Status != "" && !v.Status.Valid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown vessel status %q", string(v.Status))
	}
	if utf8.RuneCountInString(v.LastPortOfCall) > MaxPortNameLength {
		return dErrors.Newf(dErrors.CodeValidation, "last port of call must not exceed %d characters", MaxPortNameLength)
	}
	if utf8.RuneCountInString(v.NextPortOfCall) > MaxPortNameLength {
		return dErrors.Newf(dErrors.CodeValidation, "next port of call must not exceed %d characters", MaxPortNameLength)
	}
	return nil
}

// ApplyReplacement overwrites every mutable field from r. Fields absent in r
// clear the stored values (full replace semantics, not a merge); ID and
// CreatedAt are never touched.
func (v *Vessel) ApplyReplacement(r *Vessel, now time.Time) {
	v.Name = r.Name
	v.IMONumber = r.IMONumber
	v.Type = r.Type
	v.FlagState = r.FlagState
	v.YearBuilt = r.YearBuilt
	v.LengthMeters = r.LengthMeters
	v.GrossTonnage = r.GrossTonnage
	v.Status = r.Status
	v.LastPortOfCall = r.LastPortOfCall
	v.NextPortOfCall = r.NextPortOfCall
	v.EstimatedArrival = r.EstimatedArrival
	v.UpdatedAt = now
}

// ApplyStatus sets only the status and refreshes the update timestamp.
func (v *Vessel) ApplyStatus(status VesselStatus, now time.Time) {
	v.Status = status
	v.UpdatedAt = now
}

// Clone returns a deep copy so callers can't mutate shared store state.
func (v *Vessel) Clone() *Vessel {
	c := *v
	if v.YearBuilt != nil {
		yb := *v.YearBuilt
		c.YearBuilt = &yb
	}
	if v.LengthMeters != nil {
		lm := *v.LengthMeters
		c.LengthMeters = &lm
	}
	if v.GrossTonnage != nil {
		gt := *v.GrossTonnage
		c.GrossTonnage = &gt
	}
	if v.EstimatedArrival != nil {
		ea := *v.EstimatedArrival
		c.EstimatedArrival = &ea
	}
	return &c
}
