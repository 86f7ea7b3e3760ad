package model

//go:generate go run github.com/dmarkham/enumer -type Status -trimprefix Status -json -yaml -sql -output status.gen.go

// Status is the lifecycle state stored on countries, tenants and branches.
type Status int

const (
	StatusActive Status = iota
	StatusInactive
	StatusSuspended
)

// TenantStatuses are the statuses a tenant may carry.
var TenantStatuses = []Status{StatusActive, StatusInactive, StatusSuspended}

// BranchStatuses are the statuses a branch or country may carry.
var BranchStatuses = []Status{StatusActive, StatusInactive}

// AllowedFor reports whether s is one of allowed.
func (i Status) AllowedFor(allowed []Status) bool {
	for _, a := range allowed {
		if a == i {
			return true
		}
	}
	return false
}
