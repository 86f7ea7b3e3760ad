package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
)

// ProductInput is the writable shape of a product. A ParentProductID or
// ProductTagID of 0 means none.
type ProductInput struct {
	Name                 *string            `json:"name" create:"present,max=50" update:"omitnil,notblank,max=50"`
	Code                 *string            `json:"code" create:"present,max=50" update:"omitnil,notblank,max=50"`
	Description          *string            `json:"description" create:"omitnil,max=500" update:"omitnil,max=500"`
	Tag                  *string            `json:"tag" create:"omitnil,max=50" update:"omitnil,max=50"`
	Sequence             *int               `json:"sequence"`
	ParentProductID      *int               `json:"parent_product_id" create:"omitnil,gte=0" update:"omitnil,gte=0"`
	ProductTagID         *int               `json:"product_tag_id" create:"omitnil,gte=0" update:"omitnil,gte=0"`
	IsInbound            *bool              `json:"is_inbound"`
	SupportedFileFormats *model.FileFormats `json:"supported_file_formats" create:"omitnil,joinedmax=250" update:"omitnil,joinedmax=250"`
}

// ProductSummary is the list representation of a product
type ProductSummary struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
}

// ProductService manages products
type ProductService struct{ *base }

func (in ProductInput) validate(partial bool) *report {
	return checkInput(in, partial)
}

// optionalRef normalizes a reference id: absent or 0 is none
func optionalRef(id *int) *uint {
	if id == nil || *id <= 0 {
		return nil
	}
	u := uint(*id)
	return &u
}

// List returns every product as {product_id, name}
func (s *ProductService) List(ctx context.Context) ([]ProductSummary, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProductSummary, len(products))
	for i, p := range products {
		out[i] = ProductSummary{ProductID: p.ProductID, Name: p.Name}
	}
	return out, nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (*model.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	return p, translate(err, "Product", id)
}

func (s *ProductService) checkCode(ctx context.Context, code string, self uint) error {
	existing, err := s.store.GetProductByCode(ctx, code)
	found, err := exists(err)
	if err != nil {
		return err
	}
	if found && existing.ProductID != self {
		return duplicate("code", fmt.Sprintf("Product with code '%s' already exists.", code))
	}
	return nil
}

// checkRefs verifies that the parent product and product tag exist
func (s *ProductService) checkRefs(ctx context.Context, parentID, tagID *uint) error {
	if parentID != nil {
		_, err := s.store.GetProduct(ctx, *parentID)
		found, err := exists(err)
		if err != nil {
			return err
		}
		if !found {
			return invalid("parent_product_id", fmt.Sprintf("Parent product with ID %d does not exist.", *parentID))
		}
	}
	if tagID != nil {
		_, err := s.store.GetProductTag(ctx, *tagID)
		found, err := exists(err)
		if err != nil {
			return err
		}
		if !found {
			return invalid("product_tag_id", fmt.Sprintf("Product tag with ID %d does not exist.", *tagID))
		}
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*model.Product, error) {
	if err := in.validate(false).err(); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:            trimmed(in.Name),
		Code:            trimmed(in.Code),
		Description:     value(in.Description),
		Tag:             trimmed(in.Tag),
		Sequence:        in.Sequence,
		ParentProductID: optionalRef(in.ParentProductID),
		ProductTagID:    optionalRef(in.ProductTagID),
	}
	if in.IsInbound != nil {
		product.IsInbound = *in.IsInbound
	}
	if in.SupportedFileFormats != nil {
		product.SupportedFileFormats = *in.SupportedFileFormats
	}

	if err := s.checkCode(ctx, product.Code, 0); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, product.ParentProductID, product.ProductTagID); err != nil {
		return nil, err
	}

	err := translate(s.store.CreateProduct(ctx, product), "Product", product.Code)
	s.recordChange(ctx, "product", strconv.FormatUint(uint64(product.ProductID), 10), "create", err)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies the fields present in in. A parent_product_id equal to
// the product's own id is ignored and the stored parent is kept.
func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput) (*model.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(true).err(); err != nil {
		return nil, err
	}

	if in.ParentProductID != nil && *in.ParentProductID == int(id) {
		in.ParentProductID = nil
	}

	if in.Code != nil {
		code := trimmed(in.Code)
		if code != product.Code {
			if err := s.checkCode(ctx, code, id); err != nil {
				return nil, err
			}
		}
		product.Code = code
	}

	var parentID, tagID *uint
	if in.ParentProductID != nil {
		parentID = optionalRef(in.ParentProductID)
	}
	if in.ProductTagID != nil {
		tagID = optionalRef(in.ProductTagID)
	}
	if err := s.checkRefs(ctx, parentID, tagID); err != nil {
		return nil, err
	}

	if in.Name != nil {
		product.Name = trimmed(in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Tag != nil {
		product.Tag = trimmed(in.Tag)
	}
	if in.Sequence != nil {
		product.Sequence = in.Sequence
	}
	if in.ParentProductID != nil {
		product.ParentProductID = parentID
	}
	if in.ProductTagID != nil {
		product.ProductTagID = tagID
	}
	if in.IsInbound != nil {
		product.IsInbound = *in.IsInbound
	}
	if in.SupportedFileFormats != nil {
		product.SupportedFileFormats = *in.SupportedFileFormats
	}

	err = translate(s.store.UpdateProduct(ctx, product), "Product", id)
	s.recordChange(ctx, "product", strconv.FormatUint(uint64(id), 10), "update", err)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product and its module links. Child products lose
// their parent.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	err := translate(s.store.DeleteProduct(ctx, id), "Product", id)
	s.recordChange(ctx, "product", strconv.FormatUint(uint64(id), 10), "delete", err)
	return err
}
