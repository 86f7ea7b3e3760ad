package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
)

// ProductModuleInput is the writable shape of a product/module link
type ProductModuleInput struct {
	ProductID *int    `json:"product_id" create:"required,gt=0" update:"omitnil,gt=0"`
	ModuleID  *int    `json:"module_id" create:"required,gt=0" update:"omitnil,gt=0"`
	Code      *string `json:"code" create:"omitnil,max=50" update:"omitnil,max=50"`
	Sequence  *int    `json:"sequence"`
}

const duplicateProductModule = "A configuration for this product and module already exists."

// ProductModuleService manages the links between products and modules
type ProductModuleService struct{ *base }

func (in ProductModuleInput) validate(partial bool) *report {
	return checkInput(in, partial)
}

func (s *ProductModuleService) List(ctx context.Context) ([]model.ProductModule, error) {
	return s.store.ListProductModules(ctx)
}

func (s *ProductModuleService) Get(ctx context.Context, id uint) (*model.ProductModule, error) {
	pm, err := s.store.GetProductModule(ctx, id)
	return pm, translate(err, "Product Module", id)
}

// checkPair verifies both sides exist and the pair is not linked yet
func (s *ProductModuleService) checkPair(ctx context.Context, productID, moduleID, self uint) error {
	if _, err := s.store.GetProduct(ctx, productID); err != nil {
		return translate(err, "Product", productID)
	}
	if _, err := s.store.GetModule(ctx, moduleID); err != nil {
		return translate(err, "Module", moduleID)
	}

	existing, err := s.store.GetProductModuleByPair(ctx, productID, moduleID)
	found, err := exists(err)
	if err != nil {
		return err
	}
	if found && existing.ProductModuleID != self {
		return duplicate("module_id", duplicateProductModule)
	}
	return nil
}

func (s *ProductModuleService) Create(ctx context.Context, in ProductModuleInput) (*model.ProductModule, error) {
	if err := in.validate(false).err(); err != nil {
		return nil, err
	}

	pm := &model.ProductModule{
		ProductID: uint(*in.ProductID),
		ModuleID:  uint(*in.ModuleID),
		Code:      trimmed(in.Code),
		Sequence:  in.Sequence,
	}
	if err := s.checkPair(ctx, pm.ProductID, pm.ModuleID, 0); err != nil {
		return nil, err
	}

	err := translate(s.store.CreateProductModule(ctx, pm), "Product Module", fmt.Sprintf("%d/%d", pm.ProductID, pm.ModuleID))
	s.recordChange(ctx, "product_module", strconv.FormatUint(uint64(pm.ProductModuleID), 10), "create", err)
	if err != nil {
		return nil, err
	}
	return pm, nil
}

// Update re-checks the pair when either side changes
func (s *ProductModuleService) Update(ctx context.Context, id uint, in ProductModuleInput) (*model.ProductModule, error) {
	pm, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(true).err(); err != nil {
		return nil, err
	}

	productID, moduleID := pm.ProductID, pm.ModuleID
	if in.ProductID != nil {
		productID = uint(*in.ProductID)
	}
	if in.ModuleID != nil {
		moduleID = uint(*in.ModuleID)
	}
	if productID != pm.ProductID || moduleID != pm.ModuleID {
		if err := s.checkPair(ctx, productID, moduleID, id); err != nil {
			return nil, err
		}
	}

	pm.ProductID = productID
	pm.ModuleID = moduleID
	if in.Code != nil {
		pm.Code = trimmed(in.Code)
	}
	if in.Sequence != nil {
		pm.Sequence = in.Sequence
	}

	err = translate(s.store.UpdateProductModule(ctx, pm), "Product Module", id)
	s.recordChange(ctx, "product_module", strconv.FormatUint(uint64(id), 10), "update", err)
	if err != nil {
		return nil, err
	}
	return pm, nil
}

// Delete removes the link and every branch configuration using it
func (s *ProductModuleService) Delete(ctx context.Context, id uint) error {
	err := translate(s.store.DeleteProductModule(ctx, id), "Product Module", id)
	s.recordChange(ctx, "product_module", strconv.FormatUint(uint64(id), 10), "delete", err)
	return err
}
