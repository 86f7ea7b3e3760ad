package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

const entityModule = "module"

// Ensure ModulesStore implements store.ModulesStore
var _ store.ModulesStore = (*ModulesStore)(nil)

// ModulesStore implements store.ModulesStore using GORM
type ModulesStore struct {
	db *gorm.DB
}

// NewModulesStore creates a new ModulesStore
func NewModulesStore(db *gorm.DB) *ModulesStore {
	return &ModulesStore{db: db}
}

func (s *ModulesStore) ListModules(ctx context.Context) ([]model.Module, error) {
	var modules []model.Module
	err := s.db.WithContext(ctx).Order("module_id").Find(&modules).Error
	return modules, translateError(entityModule, nil, err)
}

func (s *ModulesStore) GetModule(ctx context.Context, id uint) (*model.Module, error) {
	var module model.Module
	if err := findOne(s.db.WithContext(ctx), &module, entityModule, id, "module_id = ?", id); err != nil {
		return nil, err
	}
	return &module, nil
}

func (s *ModulesStore) GetModuleByName(ctx context.Context, name string) (*model.Module, error) {
	var module model.Module
	if err := findOne(s.db.WithContext(ctx), &module, entityModule, name, "name = ?", name); err != nil {
		return nil, err
	}
	return &module, nil
}

func (s *ModulesStore) GetModuleByCode(ctx context.Context, code string) (*model.Module, error) {
	var module model.Module
	if err := findOne(s.db.WithContext(ctx), &module, entityModule, code, "code = ?", code); err != nil {
		return nil, err
	}
	return &module, nil
}

func (s *ModulesStore) CreateModule(ctx context.Context, module *model.Module) error {
	return translateError(entityModule, module.Name, s.db.WithContext(ctx).Create(module).Error)
}

func (s *ModulesStore) UpdateModule(ctx context.Context, module *model.Module) error {
	return updateRow(s.db.WithContext(ctx), module, entityModule, "module_id", module.ModuleID)
}

// DeleteModule deletes a module; its product modules and features cascade
func (s *ModulesStore) DeleteModule(ctx context.Context, id uint) error {
	return deleteRow(s.db.WithContext(ctx), &model.Module{}, entityModule, id)
}
