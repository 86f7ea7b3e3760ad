package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"gorm.io/datatypes"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
)

// ModuleInput is the writable shape of a module. DependentModules may be
// any JSON value, or a string holding JSON text.
type ModuleInput struct {
	Name             *string          `json:"name" create:"present,max=50" update:"omitnil,notblank,max=50"`
	Code             *string          `json:"code" create:"present,max=50" update:"omitnil,notblank,max=50"`
	Description      *string          `json:"description" create:"omitnil,max=255" update:"omitnil,max=255"`
	CreatedBy        *string          `json:"created_by" create:"omitnil,max=50" update:"omitnil,max=50"`
	DependentModules *json.RawMessage `json:"dependent_modules"`
}

// ModuleService manages modules
type ModuleService struct{ *base }

// dependentModules returns the JSON to store, or ok=false when a string
// value does not hold valid JSON
func dependentModules(raw *json.RawMessage) (datatypes.JSON, bool) {
	if raw == nil || string(*raw) == "null" {
		return nil, true
	}
	var text string
	if err := json.Unmarshal(*raw, &text); err == nil {
		if text == "" {
			return nil, true
		}
		if !json.Valid([]byte(text)) {
			return nil, false
		}
		return datatypes.JSON(text), true
	}
	if !json.Valid(*raw) {
		return nil, false
	}
	return datatypes.JSON(*raw), true
}

func (in ModuleInput) validate(partial bool) (*report, datatypes.JSON) {
	v := checkInput(in, partial)

	deps, ok := dependentModules(in.DependentModules)
	v.check("dependent_modules", ok, "Must be valid JSON.")
	return v, deps
}

func (s *ModuleService) List(ctx context.Context) ([]model.Module, error) {
	return s.store.ListModules(ctx)
}

func (s *ModuleService) Get(ctx context.Context, id uint) (*model.Module, error) {
	m, err := s.store.GetModule(ctx, id)
	return m, translate(err, "Module", id)
}

func (s *ModuleService) checkUnique(ctx context.Context, name, code string, self uint) error {
	if name != "" {
		existing, err := s.store.GetModuleByName(ctx, name)
		found, err := exists(err)
		if err != nil {
			return err
		}
		if found && existing.ModuleID != self {
			return duplicate("name", fmt.Sprintf("Module with name '%s' already exists.", name))
		}
	}
	if code != "" {
		existing, err := s.store.GetModuleByCode(ctx, code)
		found, err := exists(err)
		if err != nil {
			return err
		}
		if found && existing.ModuleID != self {
			return duplicate("code", fmt.Sprintf("Module with code '%s' already exists.", code))
		}
	}
	return nil
}

func (s *ModuleService) Create(ctx context.Context, in ModuleInput) (*model.Module, error) {
	v, deps := in.validate(false)
	if err := v.err(); err != nil {
		return nil, err
	}

	module := &model.Module{
		Name:             trimmed(in.Name),
		Code:             trimmed(in.Code),
		Description:      value(in.Description),
		CreatedBy:        trimmed(in.CreatedBy),
		DependentModules: deps,
	}
	if module.CreatedBy == "" {
		module.CreatedBy = s.createdBy
	}
	if err := s.checkUnique(ctx, module.Name, module.Code, 0); err != nil {
		return nil, err
	}

	err := translate(s.store.CreateModule(ctx, module), "Module", module.Code)
	s.recordChange(ctx, "module", strconv.FormatUint(uint64(module.ModuleID), 10), "create", err)
	if err != nil {
		return nil, err
	}
	return module, nil
}

func (s *ModuleService) Update(ctx context.Context, id uint, in ModuleInput) (*model.Module, error) {
	module, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v, deps := in.validate(true)
	if err := v.err(); err != nil {
		return nil, err
	}

	var name, code string
	if in.Name != nil && trimmed(in.Name) != module.Name {
		name = trimmed(in.Name)
	}
	if in.Code != nil && trimmed(in.Code) != module.Code {
		code = trimmed(in.Code)
	}
	if err := s.checkUnique(ctx, name, code, id); err != nil {
		return nil, err
	}

	if in.Name != nil {
		module.Name = trimmed(in.Name)
	}
	if in.Code != nil {
		module.Code = trimmed(in.Code)
	}
	if in.Description != nil {
		module.Description = *in.Description
	}
	if in.CreatedBy != nil {
		module.CreatedBy = trimmed(in.CreatedBy)
	}
	if in.DependentModules != nil {
		module.DependentModules = deps
	}

	err = translate(s.store.UpdateModule(ctx, module), "Module", id)
	s.recordChange(ctx, "module", strconv.FormatUint(uint64(id), 10), "update", err)
	if err != nil {
		return nil, err
	}
	return module, nil
}

// Delete removes a module together with its product links, their branch
// configuration and its features
func (s *ModuleService) Delete(ctx context.Context, id uint) error {
	err := translate(s.store.DeleteModule(ctx, id), "Module", id)
	s.recordChange(ctx, "module", strconv.FormatUint(uint64(id), 10), "delete", err)
	return err
}
