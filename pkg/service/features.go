package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
)

// FeatureInput is the writable shape of a feature. A ModuleID of 0 means
// none.
type FeatureInput struct {
	Name        *string `json:"name" create:"present,max=50" update:"omitnil,notblank,max=50"`
	Code        *string `json:"code" create:"omitnil,max=50" update:"omitnil,max=50"`
	Description *string `json:"description" create:"omitnil,max=500" update:"omitnil,max=500"`
	ModuleID    *int    `json:"module_id" create:"omitnil,gte=0" update:"omitnil,gte=0"`
	CreatedBy   *string `json:"created_by" create:"omitnil,max=50" update:"omitnil,max=50"`
}

// FeatureService manages the global feature catalog
type FeatureService struct{ *base }

func (in FeatureInput) validate(partial bool) *report {
	return checkInput(in, partial)
}

// optionalCode treats a blank code as no code
func optionalCode(s *string) *string {
	if s == nil || trimmed(s) == "" {
		return nil
	}
	code := trimmed(s)
	return &code
}

func (s *FeatureService) List(ctx context.Context) ([]model.Feature, error) {
	return s.store.ListFeatures(ctx)
}

func (s *FeatureService) Get(ctx context.Context, id uint) (*model.Feature, error) {
	f, err := s.store.GetFeature(ctx, id)
	return f, translate(err, "Feature", id)
}

func (s *FeatureService) checkUnique(ctx context.Context, name string, code *string, self uint) error {
	if name != "" {
		existing, err := s.store.GetFeatureByName(ctx, name)
		found, err := exists(err)
		if err != nil {
			return err
		}
		if found && existing.FeatureID != self {
			return duplicate("name", fmt.Sprintf("Feature with name '%s' already exists.", name))
		}
	}
	if code != nil {
		existing, err := s.store.GetFeatureByCode(ctx, *code)
		found, err := exists(err)
		if err != nil {
			return err
		}
		if found && existing.FeatureID != self {
			return duplicate("code", fmt.Sprintf("Feature with code '%s' already exists.", *code))
		}
	}
	return nil
}

func (s *FeatureService) checkModule(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	_, err := s.store.GetModule(ctx, *id)
	found, err := exists(err)
	if err != nil {
		return err
	}
	if !found {
		return invalid("module_id", fmt.Sprintf("Module with ID %d does not exist.", *id))
	}
	return nil
}

func (s *FeatureService) Create(ctx context.Context, in FeatureInput) (*model.Feature, error) {
	if err := in.validate(false).err(); err != nil {
		return nil, err
	}

	feature := &model.Feature{
		Name:        trimmed(in.Name),
		Code:        optionalCode(in.Code),
		Description: value(in.Description),
		ModuleID:    optionalRef(in.ModuleID),
		CreatedBy:   trimmed(in.CreatedBy),
	}
	if feature.CreatedBy == "" {
		feature.CreatedBy = s.createdBy
	}
	if err := s.checkUnique(ctx, feature.Name, feature.Code, 0); err != nil {
		return nil, err
	}
	if err := s.checkModule(ctx, feature.ModuleID); err != nil {
		return nil, err
	}

	err := translate(s.store.CreateFeature(ctx, feature), "Feature", feature.Name)
	s.recordChange(ctx, "feature", strconv.FormatUint(uint64(feature.FeatureID), 10), "create", err)
	if err != nil {
		return nil, err
	}
	return feature, nil
}

func (s *FeatureService) Update(ctx context.Context, id uint, in FeatureInput) (*model.Feature, error) {
	feature, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(true).err(); err != nil {
		return nil, err
	}

	var name string
	if in.Name != nil && trimmed(in.Name) != feature.Name {
		name = trimmed(in.Name)
	}
	code := optionalCode(in.Code)
	if code != nil && feature.Code != nil && *code == *feature.Code {
		code = nil
	}
	if err := s.checkUnique(ctx, name, code, id); err != nil {
		return nil, err
	}

	var moduleID *uint
	if in.ModuleID != nil {
		moduleID = optionalRef(in.ModuleID)
		if err := s.checkModule(ctx, moduleID); err != nil {
			return nil, err
		}
	}

	if in.Name != nil {
		feature.Name = trimmed(in.Name)
	}
	if in.Code != nil {
		feature.Code = optionalCode(in.Code)
	}
	if in.Description != nil {
		feature.Description = *in.Description
	}
	if in.ModuleID != nil {
		feature.ModuleID = moduleID
	}
	if in.CreatedBy != nil {
		feature.CreatedBy = trimmed(in.CreatedBy)
	}

	err = translate(s.store.UpdateFeature(ctx, feature), "Feature", id)
	s.recordChange(ctx, "feature", strconv.FormatUint(uint64(id), 10), "update", err)
	if err != nil {
		return nil, err
	}
	return feature, nil
}

// Delete removes a feature and every tenant override of it
func (s *FeatureService) Delete(ctx context.Context, id uint) error {
	err := translate(s.store.DeleteFeature(ctx, id), "Feature", id)
	s.recordChange(ctx, "feature", strconv.FormatUint(uint64(id), 10), "delete", err)
	return err
}
