package gorm

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

const entityBranch = "branch"

// Ensure BranchesStore implements store.BranchesStore
var _ store.BranchesStore = (*BranchesStore)(nil)

// BranchesStore implements store.BranchesStore using GORM
type BranchesStore struct {
	db *gorm.DB
}

// NewBranchesStore creates a new BranchesStore
func NewBranchesStore(db *gorm.DB) *BranchesStore {
	return &BranchesStore{db: db}
}

func (s *BranchesStore) ListBranchesByTenant(ctx context.Context, tenantID uint) ([]model.Branch, error) {
	var branches []model.Branch
	err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("branch_id").Find(&branches).Error
	return branches, translateError(entityBranch, nil, err)
}

func (s *BranchesStore) GetBranch(ctx context.Context, id uint) (*model.Branch, error) {
	var branch model.Branch
	if err := findOne(s.db.WithContext(ctx), &branch, entityBranch, id, "branch_id = ?", id); err != nil {
		return nil, err
	}
	return &branch, nil
}

func (s *BranchesStore) GetBranchByCode(ctx context.Context, tenantID uint, code string) (*model.Branch, error) {
	var branch model.Branch
	err := findOne(s.db.WithContext(ctx), &branch, entityBranch, code, "tenant_id = ? AND code = ?", tenantID, code)
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

// LockBranch selects the branch FOR UPDATE
func (s *BranchesStore) LockBranch(ctx context.Context, id uint) (*model.Branch, error) {
	var branch model.Branch
	db := s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	if err := findOne(db, &branch, entityBranch, id, "branch_id = ?", id); err != nil {
		return nil, err
	}
	return &branch, nil
}

func (s *BranchesStore) CreateBranch(ctx context.Context, branch *model.Branch) error {
	return translateError(entityBranch, branch.Code, s.db.WithContext(ctx).Create(branch).Error)
}

func (s *BranchesStore) UpdateBranch(ctx context.Context, branch *model.Branch) error {
	return updateRow(s.db.WithContext(ctx), branch, entityBranch, "branch_id", branch.BranchID)
}

func (s *BranchesStore) DeleteBranch(ctx context.Context, id uint) error {
	return deleteRow(s.db.WithContext(ctx), &model.Branch{}, entityBranch, id)
}
