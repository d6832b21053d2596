package domain

import "time"

// AssetStatus enumerates inventory states.
type AssetStatus string

const (
	AssetStatusAvailable AssetStatus = "AVAILABLE"
	AssetStatusAssigned  AssetStatus = "ASSIGNED"
	AssetStatusInRepair  AssetStatus = "IN_REPAIR"
	AssetStatusRetired   AssetStatus = "RETIRED"
)

// Asset is a tracked piece of IT inventory. AssignedToName is a denormalized
// copy of the assignee's name, refreshed by the asset service on assignment.
type Asset struct {
	ID             string
	AssetTag       string
	Name           string
	Type           string
	Status         AssetStatus
	AssignedToID   *string
	AssignedToName *string
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
