package models

import (
	dErrors "vesselregistry/pkg/domain-errors"
)

// VesselStatus is the operational state of a vessel. It is a closed
// enumeration, not a workflow: any status is reachable from any other.
type VesselStatus string

const (
	StatusActive           VesselStatus = "active"
	StatusInPort           VesselStatus = "in_port"
	StatusAtSea            VesselStatus = "at_sea"
	StatusUnderMaintenance VesselStatus = "under_maintenance"
	StatusDecommissioned   VesselStatus = "decommissioned"
	StatusDetained         VesselStatus = "detained"
)

// VesselStatuses lists every valid vessel status.
var VesselStatuses = []VesselStatus{
	StatusActive,
	StatusInPort,
	StatusAtSea,
	StatusUnderMaintenance,
	StatusDecommissioned,
	StatusDetained,
}

// Valid reports whether s is a member of the closed status set.
func (s VesselStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInPort, StatusAtSea, StatusUnderMaintenance,
		StatusDecommissioned, StatusDetained:
		return true
	}
	return false
}

func (s VesselStatus) String() string { return string(s) }

// ParseVesselStatus converts raw input into a VesselStatus, rejecting unknown values.
func ParseVesselStatus(raw string) (VesselStatus, error) {
	s := VesselStatus(raw)
	if !s.Valid() {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown vessel status %q", raw)
	}
	return s, nil
}
