package audit

import (
	"fmt"
	"strconv"
	"strings"
)

// Actor identifies who made a change and from where
type Actor struct {
	User      string
	ClientIP  string
	RequestID string
}

func (a Actor) user() string {
	if a.User == "" {
		return "anonymous"
	}
	return a.User
}

func (a Actor) client() map[string]string {
	client := map[string]string{"ip": a.ClientIP}
	if a.RequestID != "" {
		client["request_id"] = a.RequestID
	}
	return client
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func severity(success bool) Severity {
	if success {
		return SeverityInfo
	}
	return SeverityWarning
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

// ModuleConfigurationEvent records a reconciliation or removal of the
// modules enabled for a branch and product.
type ModuleConfigurationEvent struct {
	Actor
	TenantID     uint
	BranchID     uint
	ProductID    uint
	Operation    string // "reconcile" or "unconfigure"
	Added        []uint
	Removed      []uint
	Success      bool
	ErrorMessage string
}

func (e ModuleConfigurationEvent) MessageID() string {
	return "module-config"
}

func (e ModuleConfigurationEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s %sd modules of product %d at branch %d (added %d, removed %d)",
			e.user(), e.Operation, e.ProductID, e.BranchID, len(e.Added), len(e.Removed))
	}
	msg := fmt.Sprintf("%s tried to %s modules of product %d at branch %d",
		e.user(), e.Operation, e.ProductID, e.BranchID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e ModuleConfigurationEvent) Severity() Severity {
	return severity(e.Success)
}

func (e ModuleConfigurationEvent) Facility() int {
	return FacilityLocal0
}

func (e ModuleConfigurationEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDConfig: {
			"branch":  strconv.FormatUint(uint64(e.BranchID), 10),
			"product": strconv.FormatUint(uint64(e.ProductID), 10),
		},
		SDIDSubject: {
			"user": e.user(),
		},
		SDIDClient: e.client(),
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
	if e.TenantID != 0 {
		sd[SDIDConfig]["tenant"] = strconv.FormatUint(uint64(e.TenantID), 10)
	}
	if len(e.Added) > 0 {
		sd[SDIDConfig]["added"] = joinIDs(e.Added)
	}
	if len(e.Removed) > 0 {
		sd[SDIDConfig]["removed"] = joinIDs(e.Removed)
	}
	return sd
}

// FeatureConfigurationEvent records a tenant feature reconciliation
type FeatureConfigurationEvent struct {
	Actor
	TenantID     uint
	Enabled      []uint
	Disabled     []uint
	Success      bool
	ErrorMessage string
}

func (e FeatureConfigurationEvent) MessageID() string {
	return "feature-config"
}

func (e FeatureConfigurationEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s updated features of tenant %d (enabled %d, disabled %d)",
			e.user(), e.TenantID, len(e.Enabled), len(e.Disabled))
	}
	msg := fmt.Sprintf("%s tried to update features of tenant %d", e.user(), e.TenantID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e FeatureConfigurationEvent) Severity() Severity {
	return severity(e.Success)
}

func (e FeatureConfigurationEvent) Facility() int {
	return FacilityLocal0
}

func (e FeatureConfigurationEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDConfig: {
			"tenant": strconv.FormatUint(uint64(e.TenantID), 10),
		},
		SDIDSubject: {
			"user": e.user(),
		},
		SDIDClient: e.client(),
		SDIDAction: {
			"operation": "reconcile",
			"result":    result(e.Success),
		},
	}
	if len(e.Enabled) > 0 {
		sd[SDIDConfig]["enabled"] = joinIDs(e.Enabled)
	}
	if len(e.Disabled) > 0 {
		sd[SDIDConfig]["disabled"] = joinIDs(e.Disabled)
	}
	return sd
}

// ChangeEvent records the create, update or delete of an entity
type ChangeEvent struct {
	Actor
	Entity       string // "tenant", "branch", "product", ...
	EntityID     string
	Operation    string // "create", "update", "delete"
	Success      bool
	ErrorMessage string
}

func (e ChangeEvent) MessageID() string {
	return e.Operation
}

func (e ChangeEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s %s %s %s", e.user(), pastTense(e.Operation), e.Entity, e.EntityID)
	}
	msg := fmt.Sprintf("%s tried to %s %s %s", e.user(), e.Operation, e.Entity, e.EntityID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func pastTense(op string) string {
	if strings.HasSuffix(op, "e") {
		return op + "d"
	}
	return op + "ed"
}

func (e ChangeEvent) Severity() Severity {
	if e.Success && e.Operation == "delete" {
		return SeverityNotice
	}
	return severity(e.Success)
}

func (e ChangeEvent) Facility() int {
	return FacilityLocal0
}

func (e ChangeEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			"user":   e.user(),
			"entity": e.Entity,
			"id":     e.EntityID,
		},
		SDIDClient: e.client(),
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
}
