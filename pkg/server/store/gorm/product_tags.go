package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

const entityProductTag = "product tag"

// Ensure ProductTagsStore implements store.ProductTagsStore
var _ store.ProductTagsStore = (*ProductTagsStore)(nil)

// ProductTagsStore implements store.ProductTagsStore using GORM
type ProductTagsStore struct {
	db *gorm.DB
}

// NewProductTagsStore creates a new ProductTagsStore
func NewProductTagsStore(db *gorm.DB) *ProductTagsStore {
	return &ProductTagsStore{db: db}
}

func (s *ProductTagsStore) ListProductTags(ctx context.Context) ([]model.ProductTag, error) {
	var tags []model.ProductTag
	err := s.db.WithContext(ctx).Order("sequence NULLS LAST").Order("product_tag_id").Find(&tags).Error
	return tags, translateError(entityProductTag, nil, err)
}

func (s *ProductTagsStore) GetProductTag(ctx context.Context, id uint) (*model.ProductTag, error) {
	var tag model.ProductTag
	if err := findOne(s.db.WithContext(ctx), &tag, entityProductTag, id, "product_tag_id = ?", id); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *ProductTagsStore) GetProductTagByCode(ctx context.Context, code string) (*model.ProductTag, error) {
	var tag model.ProductTag
	if err := findOne(s.db.WithContext(ctx), &tag, entityProductTag, code, "code = ?", code); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *ProductTagsStore) GetProductTagByName(ctx context.Context, name string) (*model.ProductTag, error) {
	var tag model.ProductTag
	if err := findOne(s.db.WithContext(ctx), &tag, entityProductTag, name, "name = ?", name); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *ProductTagsStore) CreateProductTag(ctx context.Context, tag *model.ProductTag) error {
	return translateError(entityProductTag, tag.Code, s.db.WithContext(ctx).Create(tag).Error)
}

func (s *ProductTagsStore) UpdateProductTag(ctx context.Context, tag *model.ProductTag) error {
	return updateRow(s.db.WithContext(ctx), tag, entityProductTag, "product_tag_id", tag.ProductTagID)
}

func (s *ProductTagsStore) DeleteProductTag(ctx context.Context, id uint) error {
	return deleteRow(s.db.WithContext(ctx), &model.ProductTag{}, entityProductTag, id)
}
