package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
)

// BranchInput is the writable shape of a branch. Nil fields are absent.
type BranchInput struct {
	Name        *string `json:"name" create:"present,max=50,branchname" update:"omitnil,notblank,max=50,branchname"`
	Description *string `json:"description" create:"required,max=500" update:"omitnil,max=500"`
	Status      *string `json:"status" create:"required"`
	Code        *string `json:"code" create:"present,max=50,code" update:"omitnil,notblank,max=50,code"`
	CountryID   *int    `json:"country_id" create:"required"`
}

// BranchService manages the branches of tenants
type BranchService struct{ *base }

func (in BranchInput) validate(partial bool) (*report, model.Status) {
	v := checkInput(in, partial)

	var status model.Status
	if in.Status != nil {
		status = parseStatus(v, "status", in.Status, model.BranchStatuses)
	}
	return v, status
}

func (s *BranchService) Get(ctx context.Context, id uint) (*model.Branch, error) {
	b, err := s.store.GetBranch(ctx, id)
	return b, translate(err, "Branch", id)
}

func (s *BranchService) checkCode(ctx context.Context, tenantID uint, code string, self uint) error {
	existing, err := s.store.GetBranchByCode(ctx, tenantID, code)
	found, err := exists(err)
	if err != nil {
		return err
	}
	if found && existing.BranchID != self {
		return duplicate("code", fmt.Sprintf("Branch code '%s' already exists for this tenant.", code))
	}
	return nil
}

// Create adds a branch to the tenant addressed by key
func (s *BranchService) Create(ctx context.Context, key model.TenantKey, in BranchInput) (*model.Branch, error) {
	tenant, err := (&TenantService{s.base}).Get(ctx, key)
	if err != nil {
		return nil, err
	}

	v, status := in.validate(false)
	if err := v.err(); err != nil {
		return nil, err
	}

	branch := &model.Branch{
		TenantID:    tenant.TenantID,
		CountryID:   uint(*in.CountryID),
		Name:        trimmed(in.Name),
		Description: value(in.Description),
		Status:      status,
		Code:        trimmed(in.Code),
	}

	if err := s.checkCode(ctx, tenant.TenantID, branch.Code, 0); err != nil {
		return nil, err
	}
	if err := (&TenantService{s.base}).checkCountry(ctx, *in.CountryID); err != nil {
		return nil, err
	}

	err = translate(s.store.CreateBranch(ctx, branch), "Branch", branch.Code)
	s.recordChange(ctx, "branch", strconv.FormatUint(uint64(branch.BranchID), 10), "create", err)
	if err != nil {
		return nil, err
	}
	return branch, nil
}

// Update applies the fields present in in. A changed code is re-checked
// within the tenant.
func (s *BranchService) Update(ctx context.Context, id uint, in BranchInput) (*model.Branch, error) {
	branch, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	v, status := in.validate(true)
	if err := v.err(); err != nil {
		return nil, err
	}

	if in.Code != nil {
		code := trimmed(in.Code)
		if code != branch.Code {
			if err := s.checkCode(ctx, branch.TenantID, code, branch.BranchID); err != nil {
				return nil, err
			}
		}
		branch.Code = code
	}
	if in.CountryID != nil {
		if uint(*in.CountryID) != branch.CountryID || *in.CountryID <= 0 {
			if err := (&TenantService{s.base}).checkCountry(ctx, *in.CountryID); err != nil {
				return nil, err
			}
		}
		branch.CountryID = uint(*in.CountryID)
	}
	if in.Name != nil {
		branch.Name = trimmed(in.Name)
	}
	if in.Description != nil {
		branch.Description = *in.Description
	}
	if in.Status != nil {
		branch.Status = status
	}

	err = translate(s.store.UpdateBranch(ctx, branch), "Branch", id)
	s.recordChange(ctx, "branch", strconv.FormatUint(uint64(id), 10), "update", err)
	if err != nil {
		return nil, err
	}
	return branch, nil
}

// Delete removes a branch and, through the cascade, its module
// configuration. The deleted branch is returned.
func (s *BranchService) Delete(ctx context.Context, id uint) (*model.Branch, error) {
	branch, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	err = translate(s.store.DeleteBranch(ctx, id), "Branch", id)
	s.recordChange(ctx, "branch", strconv.FormatUint(uint64(id), 10), "delete", err)
	if err != nil {
		return nil, err
	}
	return branch, nil
}
