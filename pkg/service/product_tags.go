package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
)

// ProductTagInput is the writable shape of a product tag
type ProductTagInput struct {
	Code     *string `json:"code" create:"present,max=50" update:"omitnil,notblank,max=50"`
	Name     *string `json:"name" create:"present,max=50" update:"omitnil,notblank,max=50"`
	Sequence *int    `json:"sequence"`
}

// ProductTagService manages product tags
type ProductTagService struct{ *base }

func (in ProductTagInput) validate(partial bool) *report {
	return checkInput(in, partial)
}

func (s *ProductTagService) List(ctx context.Context) ([]model.ProductTag, error) {
	return s.store.ListProductTags(ctx)
}

func (s *ProductTagService) Get(ctx context.Context, id uint) (*model.ProductTag, error) {
	t, err := s.store.GetProductTag(ctx, id)
	return t, translate(err, "Product Tag", id)
}

func (s *ProductTagService) checkUnique(ctx context.Context, code, name string, self uint) error {
	if code != "" {
		existing, err := s.store.GetProductTagByCode(ctx, code)
		found, err := exists(err)
		if err != nil {
			return err
		}
		if found && existing.ProductTagID != self {
			return duplicate("code", fmt.Sprintf("Product Tag with code '%s' already exists.", code))
		}
	}
	if name != "" {
		existing, err := s.store.GetProductTagByName(ctx, name)
		found, err := exists(err)
		if err != nil {
			return err
		}
		if found && existing.ProductTagID != self {
			return duplicate("name", fmt.Sprintf("Product Tag with name '%s' already exists.", name))
		}
	}
	return nil
}

func (s *ProductTagService) Create(ctx context.Context, in ProductTagInput) (*model.ProductTag, error) {
	if err := in.validate(false).err(); err != nil {
		return nil, err
	}

	tag := &model.ProductTag{
		Code:     trimmed(in.Code),
		Name:     trimmed(in.Name),
		Sequence: in.Sequence,
	}
	if err := s.checkUnique(ctx, tag.Code, tag.Name, 0); err != nil {
		return nil, err
	}

	err := translate(s.store.CreateProductTag(ctx, tag), "Product Tag", tag.Code)
	s.recordChange(ctx, "product_tag", strconv.FormatUint(uint64(tag.ProductTagID), 10), "create", err)
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *ProductTagService) Update(ctx context.Context, id uint, in ProductTagInput) (*model.ProductTag, error) {
	tag, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(true).err(); err != nil {
		return nil, err
	}

	var code, name string
	if in.Code != nil && trimmed(in.Code) != tag.Code {
		code = trimmed(in.Code)
	}
	if in.Name != nil && trimmed(in.Name) != tag.Name {
		name = trimmed(in.Name)
	}
	if err := s.checkUnique(ctx, code, name, id); err != nil {
		return nil, err
	}

	if in.Code != nil {
		tag.Code = trimmed(in.Code)
	}
	if in.Name != nil {
		tag.Name = trimmed(in.Name)
	}
	if in.Sequence != nil {
		tag.Sequence = in.Sequence
	}

	err = translate(s.store.UpdateProductTag(ctx, tag), "Product Tag", id)
	s.recordChange(ctx, "product_tag", strconv.FormatUint(uint64(id), 10), "update", err)
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// Delete removes a product tag; products carrying it are left untagged
func (s *ProductTagService) Delete(ctx context.Context, id uint) error {
	err := translate(s.store.DeleteProductTag(ctx, id), "Product Tag", id)
	s.recordChange(ctx, "product_tag", strconv.FormatUint(uint64(id), 10), "delete", err)
	return err
}
