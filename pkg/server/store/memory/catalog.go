package memory

import (
	"context"
	"sort"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

func bySequence(a, b *int) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a < *b
	}
}

func (s *Store) ListProductTags(ctx context.Context) ([]model.ProductTag, error) {
	if err := s.lock("ListProductTags"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	tags := values(s.data.productTags, nil)
	sort.SliceStable(tags, func(i, j int) bool { return bySequence(tags[i].Sequence, tags[j].Sequence) })
	return tags, nil
}

func (s *Store) GetProductTag(ctx context.Context, id uint) (*model.ProductTag, error) {
	if err := s.lock("GetProductTag"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	t, ok := s.data.productTags[id]
	if !ok {
		return nil, store.NewNotFound("product tag", id)
	}
	return &t, nil
}

func (s *Store) findProductTag(method string, match func(model.ProductTag) bool, id interface{}) (*model.ProductTag, error) {
	if err := s.lock(method); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	found := values(s.data.productTags, match)
	if len(found) == 0 {
		return nil, store.NewNotFound("product tag", id)
	}
	return &found[0], nil
}

func (s *Store) GetProductTagByCode(ctx context.Context, code string) (*model.ProductTag, error) {
	return s.findProductTag("GetProductTagByCode", func(t model.ProductTag) bool { return t.Code == code }, code)
}

func (s *Store) GetProductTagByName(ctx context.Context, name string) (*model.ProductTag, error) {
	return s.findProductTag("GetProductTagByName", func(t model.ProductTag) bool { return t.Name == name }, name)
}

func (s *Store) checkProductTag(t *model.ProductTag) error {
	for id, other := range s.data.productTags {
		if id != t.ProductTagID && other.Code == t.Code {
			return duplicate("product tag", "product_tag_code_key")
		}
	}
	return nil
}

func (s *Store) CreateProductTag(ctx context.Context, tag *model.ProductTag) error {
	if err := s.lockWrite("CreateProductTag"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if err := s.checkProductTag(tag); err != nil {
		return err
	}
	tag.ProductTagID = s.data.nextID("product_tag")
	s.data.productTags[tag.ProductTagID] = *tag
	return nil
}

func (s *Store) UpdateProductTag(ctx context.Context, tag *model.ProductTag) error {
	if err := s.lockWrite("UpdateProductTag"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.data.productTags[tag.ProductTagID]; !ok {
		return store.NewNotFound("product tag", tag.ProductTagID)
	}
	if err := s.checkProductTag(tag); err != nil {
		return err
	}
	s.data.productTags[tag.ProductTagID] = *tag
	return nil
}

// DeleteProductTag clears product_tag_id on the products that carried it.
func (s *Store) DeleteProductTag(ctx context.Context, id uint) error {
	if err := s.lockWrite("DeleteProductTag"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.data.productTags[id]; !ok {
		return store.NewNotFound("product tag", id)
	}
	delete(s.data.productTags, id)
	for pid, p := range s.data.products {
		if p.ProductTagID != nil && *p.ProductTagID == id {
			p.ProductTagID = nil
			s.data.products[pid] = p
		}
	}
	return nil
}

func (s *Store) ListProducts(ctx context.Context) ([]model.Product, error) {
	if err := s.lock("ListProducts"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	products := values(s.data.products, nil)
	sort.SliceStable(products, func(i, j int) bool { return bySequence(products[i].Sequence, products[j].Sequence) })
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	if err := s.lock("GetProduct"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	p, ok := s.data.products[id]
	if !ok {
		return nil, store.NewNotFound("product", id)
	}
	return &p, nil
}

func (s *Store) GetProductByCode(ctx context.Context, code string) (*model.Product, error) {
	if err := s.lock("GetProductByCode"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	found := values(s.data.products, func(p model.Product) bool { return p.Code == code })
	if len(found) == 0 {
		return nil, store.NewNotFound("product", code)
	}
	return &found[0], nil
}

func (s *Store) checkProduct(p *model.Product) error {
	if p.ParentProductID != nil {
		if p.ProductID != 0 && *p.ParentProductID == p.ProductID {
			return &store.ReferencedError{Entity: "product", Constraint: "chk_product_not_own_parent"}
		}
		if _, ok := s.data.products[*p.ParentProductID]; !ok {
			return missingReference("product", "product_parent_product_id_fkey")
		}
	}
	if p.ProductTagID != nil {
		if _, ok := s.data.productTags[*p.ProductTagID]; !ok {
			return missingReference("product", "product_product_tag_id_fkey")
		}
	}
	for id, other := range s.data.products {
		if id != p.ProductID && other.Code == p.Code {
			return duplicate("product", "product_code_key")
		}
	}
	return nil
}

func (s *Store) CreateProduct(ctx context.Context, product *model.Product) error {
	if err := s.lockWrite("CreateProduct"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if err := s.checkProduct(product); err != nil {
		return err
	}
	product.ProductID = s.data.nextID("product")
	s.data.products[product.ProductID] = *product
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, product *model.Product) error {
	if err := s.lockWrite("UpdateProduct"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.data.products[product.ProductID]; !ok {
		return store.NewNotFound("product", product.ProductID)
	}
	if err := s.checkProduct(product); err != nil {
		return err
	}
	s.data.products[product.ProductID] = *product
	return nil
}

// DeleteProduct removes the product's modules and configuration and clears
// parent_product_id on its children.
func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.lockWrite("DeleteProduct"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.data.products[id]; !ok {
		return store.NewNotFound("product", id)
	}
	delete(s.data.products, id)
	for pid, p := range s.data.products {
		if p.ParentProductID != nil && *p.ParentProductID == id {
			p.ParentProductID = nil
			s.data.products[pid] = p
		}
	}
	for pmID, pm := range s.data.productModules {
		if pm.ProductID == id {
			s.deleteProductModule(pmID)
		}
	}
	return nil
}

func (s *Store) ListModules(ctx context.Context) ([]model.Module, error) {
	if err := s.lock("ListModules"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return values(s.data.modules, nil), nil
}

func (s *Store) GetModule(ctx context.Context, id uint) (*model.Module, error) {
	if err := s.lock("GetModule"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	m, ok := s.data.modules[id]
	if !ok {
		return nil, store.NewNotFound("module", id)
	}
	return &m, nil
}

func (s *Store) findModule(method string, match func(model.Module) bool, id interface{}) (*model.Module, error) {
	if err := s.lock(method); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	found := values(s.data.modules, match)
	if len(found) == 0 {
		return nil, store.NewNotFound("module", id)
	}
	return &found[0], nil
}

func (s *Store) GetModuleByName(ctx context.Context, name string) (*model.Module, error) {
	return s.findModule("GetModuleByName", func(m model.Module) bool { return m.Name == name }, name)
}

func (s *Store) GetModuleByCode(ctx context.Context, code string) (*model.Module, error) {
	return s.findModule("GetModuleByCode", func(m model.Module) bool { return m.Code == code }, code)
}

func (s *Store) CreateModule(ctx context.Context, module *model.Module) error {
	if err := s.lockWrite("CreateModule"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	module.ModuleID = s.data.nextID("module")
	s.data.modules[module.ModuleID] = *module
	return nil
}

func (s *Store) UpdateModule(ctx context.Context, module *model.Module) error {
	if err := s.lockWrite("UpdateModule"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.data.modules[module.ModuleID]; !ok {
		return store.NewNotFound("module", module.ModuleID)
	}
	s.data.modules[module.ModuleID] = *module
	return nil
}

func (s *Store) DeleteModule(ctx context.Context, id uint) error {
	if err := s.lockWrite("DeleteModule"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.data.modules[id]; !ok {
		return store.NewNotFound("module", id)
	}
	delete(s.data.modules, id)
	for pmID, pm := range s.data.productModules {
		if pm.ModuleID == id {
			s.deleteProductModule(pmID)
		}
	}
	for fid, f := range s.data.features {
		if f.ModuleID != nil && *f.ModuleID == id {
			s.deleteFeature(fid)
		}
	}
	return nil
}

func (s *Store) ListProductModules(ctx context.Context) ([]model.ProductModule, error) {
	if err := s.lock("ListProductModules"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	pms := values(s.data.productModules, nil)
	sort.SliceStable(pms, func(i, j int) bool {
		if pms[i].ProductID != pms[j].ProductID {
			return pms[i].ProductID < pms[j].ProductID
		}
		return bySequence(pms[i].Sequence, pms[j].Sequence)
	})
	return pms, nil
}

func (s *Store) GetProductModule(ctx context.Context, id uint) (*model.ProductModule, error) {
	if err := s.lock("GetProductModule"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	pm, ok := s.data.productModules[id]
	if !ok {
		return nil, store.NewNotFound("product module", id)
	}
	return &pm, nil
}

func (s *Store) GetProductModuleByPair(ctx context.Context, productID, moduleID uint) (*model.ProductModule, error) {
	if err := s.lock("GetProductModuleByPair"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	found := values(s.data.productModules, func(pm model.ProductModule) bool {
		return pm.ProductID == productID && pm.ModuleID == moduleID
	})
	if len(found) == 0 {
		return nil, store.NewNotFound("product module", moduleID)
	}
	return &found[0], nil
}

func (s *Store) ListModulesForProduct(ctx context.Context, productID uint) ([]store.LinkedModule, error) {
	if err := s.lock("ListModulesForProduct"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	var linked []store.LinkedModule
	for _, pm := range values(s.data.productModules, func(pm model.ProductModule) bool { return pm.ProductID == productID }) {
		m := s.data.modules[pm.ModuleID]
		linked = append(linked, store.LinkedModule{
			ProductModuleID: pm.ProductModuleID,
			ModuleID:        pm.ModuleID,
			ModuleName:      m.Name,
			ModuleCode:      m.Code,
		})
	}
	return linked, nil
}

func (s *Store) checkProductModule(pm *model.ProductModule) error {
	if _, ok := s.data.products[pm.ProductID]; !ok {
		return missingReference("product module", "product_module_product_id_fkey")
	}
	if _, ok := s.data.modules[pm.ModuleID]; !ok {
		return missingReference("product module", "product_module_module_id_fkey")
	}
	for id, other := range s.data.productModules {
		if id != pm.ProductModuleID && other.ProductID == pm.ProductID && other.ModuleID == pm.ModuleID {
			return duplicate("product module", "uq_product_module")
		}
	}
	return nil
}

func (s *Store) CreateProductModule(ctx context.Context, pm *model.ProductModule) error {
	if err := s.lockWrite("CreateProductModule"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if err := s.checkProductModule(pm); err != nil {
		return err
	}
	pm.ProductModuleID = s.data.nextID("product_module")
	s.data.productModules[pm.ProductModuleID] = *pm
	return nil
}

func (s *Store) UpdateProductModule(ctx context.Context, pm *model.ProductModule) error {
	if err := s.lockWrite("UpdateProductModule"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.data.productModules[pm.ProductModuleID]; !ok {
		return store.NewNotFound("product module", pm.ProductModuleID)
	}
	if err := s.checkProductModule(pm); err != nil {
		return err
	}
	s.data.productModules[pm.ProductModuleID] = *pm
	return nil
}

func (s *Store) DeleteProductModule(ctx context.Context, id uint) error {
	if err := s.lockWrite("DeleteProductModule"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.data.productModules[id]; !ok {
		return store.NewNotFound("product module", id)
	}
	s.deleteProductModule(id)
	return nil
}

func (s *Store) deleteProductModule(id uint) {
	delete(s.data.productModules, id)
	for bpmID, bpm := range s.data.bpms {
		if bpm.ProductModuleID == id {
			delete(s.data.bpms, bpmID)
		}
	}
}

func (s *Store) ListFeatures(ctx context.Context) ([]model.Feature, error) {
	if err := s.lock("ListFeatures"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return values(s.data.features, nil), nil
}

func (s *Store) ListFeaturesByIDs(ctx context.Context, ids []uint) ([]model.Feature, error) {
	if err := s.lock("ListFeaturesByIDs"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	wanted := make(map[uint]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	return values(s.data.features, func(f model.Feature) bool { return wanted[f.FeatureID] }), nil
}

func (s *Store) GetFeature(ctx context.Context, id uint) (*model.Feature, error) {
	if err := s.lock("GetFeature"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	f, ok := s.data.features[id]
	if !ok {
		return nil, store.NewNotFound("feature", id)
	}
	return &f, nil
}

func (s *Store) findFeature(method string, match func(model.Feature) bool, id interface{}) (*model.Feature, error) {
	if err := s.lock(method); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	found := values(s.data.features, match)
	if len(found) == 0 {
		return nil, store.NewNotFound("feature", id)
	}
	return &found[0], nil
}

func (s *Store) GetFeatureByName(ctx context.Context, name string) (*model.Feature, error) {
	return s.findFeature("GetFeatureByName", func(f model.Feature) bool { return f.Name == name }, name)
}

func (s *Store) GetFeatureByCode(ctx context.Context, code string) (*model.Feature, error) {
	return s.findFeature("GetFeatureByCode", func(f model.Feature) bool { return f.Code != nil && *f.Code == code }, code)
}

func (s *Store) checkFeature(f *model.Feature) error {
	if f.ModuleID != nil {
		if _, ok := s.data.modules[*f.ModuleID]; !ok {
			return missingReference("feature", "feature_module_id_fkey")
		}
	}
	for id, other := range s.data.features {
		if id == f.FeatureID {
			continue
		}
		if other.Name == f.Name {
			return duplicate("feature", "feature_name_key")
		}
		if f.Code != nil && other.Code != nil && *other.Code == *f.Code {
			return duplicate("feature", "feature_code_key")
		}
	}
	return nil
}

func (s *Store) CreateFeature(ctx context.Context, feature *model.Feature) error {
	if err := s.lockWrite("CreateFeature"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if err := s.checkFeature(feature); err != nil {
		return err
	}
	feature.FeatureID = s.data.nextID("feature")
	s.data.features[feature.FeatureID] = *feature
	return nil
}

func (s *Store) UpdateFeature(ctx context.Context, feature *model.Feature) error {
	if err := s.lockWrite("UpdateFeature"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.data.features[feature.FeatureID]; !ok {
		return store.NewNotFound("feature", feature.FeatureID)
	}
	if err := s.checkFeature(feature); err != nil {
		return err
	}
	s.data.features[feature.FeatureID] = *feature
	return nil
}

func (s *Store) DeleteFeature(ctx context.Context, id uint) error {
	if err := s.lockWrite("DeleteFeature"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.data.features[id]; !ok {
		return store.NewNotFound("feature", id)
	}
	s.deleteFeature(id)
	return nil
}

func (s *Store) deleteFeature(id uint) {
	delete(s.data.features, id)
	for tfID, tf := range s.data.tenantFeatures {
		if tf.FeatureID == id {
			delete(s.data.tenantFeatures, tfID)
		}
	}
}
