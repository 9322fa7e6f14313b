package models

import (
	dErrors "vesselregistry/pkg/domain-errors"
)

// VesselType classifies a vessel. The set is closed; unknown values are
// rejected at the boundary rather than defaulted.
type VesselType string

const (
	TypeCargoShip      VesselType = "cargo_ship"
	TypeContainerShip  VesselType = "container_ship"
	TypeTanker         VesselType = "tanker"
	TypeBulkCarrier    VesselType = "bulk_carrier"
	TypePassengerShip  VesselType = "passenger_ship"
	TypeCruiseShip     VesselType = "cruise_ship"
	TypeFerry          VesselType = "ferry"
	TypeFishingVessel  VesselType = "fishing_vessel"
	TypeYacht          VesselType = "yacht"
	TypeTugboat        VesselType = "tugboat"
	TypeNavalVessel    VesselType = "naval_vessel"
	TypeResearchVessel VesselType = "research_vessel"
	TypeOffshoreVessel VesselType = "offshore_vessel"
)

// VesselTypes lists every valid vessel type.
var VesselTypes = []VesselType{
	TypeCargoShip,
	TypeContainerShip,
	TypeTanker,
	TypeBulkCarrier,
	TypePassengerShip,
	TypeCruiseShip,
	TypeFerry,
	TypeFishingVessel,
	TypeYacht,
	TypeTugboat,
	TypeNavalVessel,
	TypeResearchVessel,
	TypeOffshoreVessel,
}

// Valid reports whether t is a member of the closed type set.
func (t VesselType) Valid() bool {
	switch t {
	case TypeCargoShip, TypeContainerShip, TypeTanker, TypeBulkCarrier,
		TypePassengerShip, TypeCruiseShip, TypeFerry, TypeFishingVessel,
		TypeYacht, TypeTugboat, TypeNavalVessel, TypeResearchVessel,
		TypeOffshoreVessel:
		return true
	}
	return false
}

func (t VesselType) String() string { return string(t) }

// ParseVesselType converts raw input into a VesselType, rejecting unknown values.
func ParseVesselType(raw string) (VesselType, error) {
	t := VesselType(raw)
	if !t.Valid() {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown vessel type %q", raw)
	}
	return t, nil
}
