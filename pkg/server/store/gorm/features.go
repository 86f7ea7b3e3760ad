package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

const entityFeature = "feature"

// Ensure FeaturesStore implements store.FeaturesStore
var _ store.FeaturesStore = (*FeaturesStore)(nil)

// FeaturesStore implements store.FeaturesStore using GORM
type FeaturesStore struct {
	db *gorm.DB
}

// NewFeaturesStore creates a new FeaturesStore
func NewFeaturesStore(db *gorm.DB) *FeaturesStore {
	return &FeaturesStore{db: db}
}

func (s *FeaturesStore) ListFeatures(ctx context.Context) ([]model.Feature, error) {
	var features []model.Feature
	err := s.db.WithContext(ctx).Order("feature_id").Find(&features).Error
	return features, translateError(entityFeature, nil, err)
}

func (s *FeaturesStore) ListFeaturesByIDs(ctx context.Context, ids []uint) ([]model.Feature, error) {
	var features []model.Feature
	if len(ids) == 0 {
		return features, nil
	}
	err := s.db.WithContext(ctx).Where("feature_id IN ?", ids).Order("feature_id").Find(&features).Error
	return features, translateError(entityFeature, nil, err)
}

func (s *FeaturesStore) GetFeature(ctx context.Context, id uint) (*model.Feature, error) {
	var feature model.Feature
	if err := findOne(s.db.WithContext(ctx), &feature, entityFeature, id, "feature_id = ?", id); err != nil {
		return nil, err
	}
	return &feature, nil
}

func (s *FeaturesStore) GetFeatureByName(ctx context.Context, name string) (*model.Feature, error) {
	var feature model.Feature
	if err := findOne(s.db.WithContext(ctx), &feature, entityFeature, name, "name = ?", name); err != nil {
		return nil, err
	}
	return &feature, nil
}

func (s *FeaturesStore) GetFeatureByCode(ctx context.Context, code string) (*model.Feature, error) {
	var feature model.Feature
	if err := findOne(s.db.WithContext(ctx), &feature, entityFeature, code, "code = ?", code); err != nil {
		return nil, err
	}
	return &feature, nil
}

func (s *FeaturesStore) CreateFeature(ctx context.Context, feature *model.Feature) error {
	return translateError(entityFeature, feature.Name, s.db.WithContext(ctx).Create(feature).Error)
}

func (s *FeaturesStore) UpdateFeature(ctx context.Context, feature *model.Feature) error {
	return updateRow(s.db.WithContext(ctx), feature, entityFeature, "feature_id", feature.FeatureID)
}

func (s *FeaturesStore) DeleteFeature(ctx context.Context, id uint) error {
	return deleteRow(s.db.WithContext(ctx), &model.Feature{}, entityFeature, id)
}
