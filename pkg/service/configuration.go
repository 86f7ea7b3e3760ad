package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/tenant-config/pkg/audit"
	"github.com/doodlesbykumbi/tenant-config/pkg/metrics"
	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

const (
	msgModulesUpdated   = "Module configuration updated successfully!"
	msgModulesUnchanged = "No changes made to module configuration."
)

// AvailableModule is a module linked to a product, flagged with whether
// it is enabled at the requested branch
type AvailableModule struct {
	ModuleID        uint   `json:"module_id"`
	ModuleName      string `json:"module_name"`
	ModuleCode      string `json:"module_code"`
	ProductModuleID uint   `json:"product_module_id"`
	IsConfigured    bool   `json:"is_configured"`
}

// ConfiguredModule is a module enabled for a branch and product
type ConfiguredModule struct {
	BranchID   uint   `json:"branch_id"`
	ProductID  uint   `json:"product_id"`
	ModuleID   uint   `json:"module_id"`
	ModuleName string `json:"module_name"`
}

// ReconcileModulesRequest asks for the modules of a product at a branch to
// become exactly ModuleIDs. TenantID, when set, must own the branch.
type ReconcileModulesRequest struct {
	TenantID  *uint
	BranchID  uint
	ProductID uint
	ModuleIDs []uint
	CreatedBy string
}

// ModuleReconciliation reports what a reconciliation changed, as module ids
type ModuleReconciliation struct {
	Result
	Added   []uint `json:"added"`
	Removed []uint `json:"removed"`
}

// ConfigurationService manages which modules are enabled for each branch
// and product
type ConfigurationService struct{ *base }

func (s *ConfigurationService) requireBranch(ctx context.Context, st store.Store, id uint) error {
	_, err := st.GetBranch(ctx, id)
	return translate(err, "Branch", id)
}

func (s *ConfigurationService) requireProduct(ctx context.Context, st store.Store, id uint) error {
	_, err := st.GetProduct(ctx, id)
	return translate(err, "Product", id)
}

// AvailableModules lists the modules linked to a product in display order.
// Without a branch every module is reported unconfigured.
func (s *ConfigurationService) AvailableModules(ctx context.Context, productID uint, branchID *uint) ([]AvailableModule, error) {
	if err := s.requireProduct(ctx, s.store, productID); err != nil {
		return nil, err
	}

	configured := map[uint]bool{}
	if branchID != nil {
		if err := s.requireBranch(ctx, s.store, *branchID); err != nil {
			return nil, err
		}
		rows, err := s.store.ListConfiguredModules(ctx, *branchID, productID)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			configured[r.ProductModuleID] = true
		}
	}

	linked, err := s.store.ListModulesForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	out := make([]AvailableModule, len(linked))
	for i, m := range linked {
		out[i] = AvailableModule{
			ModuleID:        m.ModuleID,
			ModuleName:      m.ModuleName,
			ModuleCode:      m.ModuleCode,
			ProductModuleID: m.ProductModuleID,
			IsConfigured:    configured[m.ProductModuleID],
		}
	}
	sortModules(s.sequencer, out, func(m AvailableModule) uint { return m.ModuleID })
	return out, nil
}

// ConfiguredModules lists the modules enabled for a branch and product in
// display order
func (s *ConfigurationService) ConfiguredModules(ctx context.Context, branchID, productID uint) ([]ConfiguredModule, error) {
	if err := s.requireBranch(ctx, s.store, branchID); err != nil {
		return nil, err
	}
	if err := s.requireProduct(ctx, s.store, productID); err != nil {
		return nil, err
	}

	rows, err := s.store.ListConfiguredModules(ctx, branchID, productID)
	if err != nil {
		return nil, err
	}

	out := make([]ConfiguredModule, len(rows))
	for i, r := range rows {
		out[i] = ConfiguredModule{
			BranchID:   branchID,
			ProductID:  productID,
			ModuleID:   r.ModuleID,
			ModuleName: r.ModuleName,
		}
	}
	sortModules(s.sequencer, out, func(m ConfiguredModule) uint { return m.ModuleID })
	return out, nil
}

// ReconcileModules makes the set of modules enabled for the branch and
// product equal to the valid subset of req.ModuleIDs. Module ids that are
// not linked to the product are dropped. The branch row stays locked for
// the whole transaction so overlapping calls on one branch serialize.
func (s *ConfigurationService) ReconcileModules(ctx context.Context, req ReconcileModulesRequest) (*ModuleReconciliation, error) {
	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = s.createdBy
	}

	var added, removed []uint
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		if req.TenantID != nil {
			if _, err := tx.GetTenant(ctx, *req.TenantID); err != nil {
				return translate(err, "Tenant", *req.TenantID)
			}
		}

		branch, err := tx.LockBranch(ctx, req.BranchID)
		if err != nil {
			return translate(err, "Branch", req.BranchID)
		}
		if req.TenantID != nil && branch.TenantID != *req.TenantID {
			return &Error{
				Kind:    store.ErrNotFound,
				Message: fmt.Sprintf("Branch with ID %d not found for Tenant ID %d.", req.BranchID, *req.TenantID),
			}
		}
		if err := s.requireProduct(ctx, tx, req.ProductID); err != nil {
			return err
		}

		linked, err := tx.ListModulesForProduct(ctx, req.ProductID)
		if err != nil {
			return err
		}
		productModuleOf := make(map[uint]uint, len(linked))
		moduleOf := make(map[uint]uint, len(linked))
		for _, m := range linked {
			productModuleOf[m.ModuleID] = m.ProductModuleID
			moduleOf[m.ProductModuleID] = m.ModuleID
		}

		desired := map[uint]bool{}
		var desiredOrder []uint
		for _, moduleID := range req.ModuleIDs {
			pmID, ok := productModuleOf[moduleID]
			if !ok || desired[pmID] {
				continue
			}
			desired[pmID] = true
			desiredOrder = append(desiredOrder, pmID)
		}

		current, err := tx.ListConfiguredModules(ctx, req.BranchID, req.ProductID)
		if err != nil {
			return err
		}
		configured := make(map[uint]bool, len(current))
		var toRemove []uint
		for _, c := range current {
			configured[c.ProductModuleID] = true
			if !desired[c.ProductModuleID] {
				toRemove = append(toRemove, c.ProductModuleID)
				removed = append(removed, c.ModuleID)
			}
		}

		now := s.now()
		var rows []model.BranchProductModule
		for _, pmID := range desiredOrder {
			if configured[pmID] {
				continue
			}
			rows = append(rows, model.BranchProductModule{
				BranchID:          req.BranchID,
				ProductModuleID:   pmID,
				CreatedBy:         createdBy,
				CreatedAt:         now,
				EligibilityConfig: model.EmptyEligibilityConfig(),
			})
			added = append(added, moduleOf[pmID])
		}

		if len(rows) > 0 {
			if err := tx.CreateBranchProductModules(ctx, rows); err != nil {
				return translate(err, "Branch Product Module", req.BranchID)
			}
		}
		if len(toRemove) > 0 {
			if _, err := tx.DeleteBranchProductModules(ctx, req.BranchID, toRemove); err != nil {
				return err
			}
		}
		return nil
	})

	event := audit.ModuleConfigurationEvent{
		Actor:     ActorFromContext(ctx),
		BranchID:  req.BranchID,
		ProductID: req.ProductID,
		Operation: "reconcile",
		Success:   err == nil,
	}
	if req.TenantID != nil {
		event.TenantID = *req.TenantID
	}

	if err != nil {
		event.ErrorMessage = err.Error()
		s.audit(event)
		s.observe(metrics.KindModules, "error", nil)
		return nil, err
	}

	result := &ModuleReconciliation{
		Result:  Result{Status: StatusInfo, Message: msgModulesUnchanged},
		Added:   nonNil(added),
		Removed: nonNil(removed),
	}
	if len(added) > 0 || len(removed) > 0 {
		result.Result = Result{Status: StatusSuccess, Message: msgModulesUpdated}
	}

	event.Added, event.Removed = added, removed
	s.audit(event)
	s.observe(metrics.KindModules, result.Status, map[string]int{"add": len(added), "remove": len(removed)})
	s.log(ctx).Debug("modules reconciled",
		zap.Uint("branch_id", req.BranchID),
		zap.Uint("product_id", req.ProductID),
		zap.Int("added", len(added)),
		zap.Int("removed", len(removed)))
	return result, nil
}

// UnconfigureModule disables one module of a product at a branch
func (s *ConfigurationService) UnconfigureModule(ctx context.Context, branchID, productID, moduleID uint) (*Result, error) {
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.LockBranch(ctx, branchID); err != nil {
			return translate(err, "Branch", branchID)
		}
		if err := s.requireProduct(ctx, tx, productID); err != nil {
			return err
		}

		pm, err := tx.GetProductModuleByPair(ctx, productID, moduleID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return &Error{
					Kind:    store.ErrNotFound,
					Message: fmt.Sprintf("Module %d is not linked to Product %d.", moduleID, productID),
					Err:     err,
				}
			}
			return err
		}

		n, err := tx.DeleteBranchProductModules(ctx, branchID, []uint{pm.ProductModuleID})
		if err != nil {
			return err
		}
		if n == 0 {
			return &Error{
				Kind:    store.ErrNotFound,
				Message: fmt.Sprintf("Module %d is not configured for Branch %d and Product %d.", moduleID, branchID, productID),
			}
		}
		return nil
	})

	event := audit.ModuleConfigurationEvent{
		Actor:     ActorFromContext(ctx),
		BranchID:  branchID,
		ProductID: productID,
		Operation: "unconfigure",
		Success:   err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
		s.audit(event)
		return nil, err
	}
	event.Removed = []uint{moduleID}
	s.audit(event)

	return &Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Module %d successfully unconfigured from Branch %d for Product %d.", moduleID, branchID, productID),
	}, nil
}

func nonNil(ids []uint) []uint {
	if ids == nil {
		return []uint{}
	}
	return ids
}
