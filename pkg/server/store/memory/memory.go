package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

// Ensure Store implements store.Store
var _ store.Store = (*Store)(nil)

// Store is an in-memory store.Store. It enforces the same unique
// constraints, foreign keys and cascades as the SQL schema. Transactions
// are serialized and restore a snapshot when fn fails. Writes made outside
// a transaction wait for the running one to finish, so a rollback never
// discards them.
type Store struct {
	*shared

	// inTx marks the view handed to a Transaction callback
	inTx bool
}

type shared struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data *state

	faults map[string]error
}

type state struct {
	countries      map[uint]model.Country
	tenants        map[uint]model.Tenant
	branches       map[uint]model.Branch
	productTags    map[uint]model.ProductTag
	products       map[uint]model.Product
	modules        map[uint]model.Module
	productModules map[uint]model.ProductModule
	bpms           map[uint]model.BranchProductModule
	features       map[uint]model.Feature
	tenantFeatures map[uint]model.TenantFeature
	seq            map[string]uint
}

// New returns an empty Store
func New() *Store {
	return &Store{shared: &shared{
		data: &state{
			countries:      map[uint]model.Country{},
			tenants:        map[uint]model.Tenant{},
			branches:       map[uint]model.Branch{},
			productTags:    map[uint]model.ProductTag{},
			products:       map[uint]model.Product{},
			modules:        map[uint]model.Module{},
			productModules: map[uint]model.ProductModule{},
			bpms:           map[uint]model.BranchProductModule{},
			features:       map[uint]model.Feature{},
			tenantFeatures: map[uint]model.TenantFeature{},
			seq:            map[string]uint{},
		},
		faults: map[string]error{},
	}}
}

func (d *state) clone() *state {
	return &state{
		countries:      maps.Clone(d.countries),
		tenants:        maps.Clone(d.tenants),
		branches:       maps.Clone(d.branches),
		productTags:    maps.Clone(d.productTags),
		products:       maps.Clone(d.products),
		modules:        maps.Clone(d.modules),
		productModules: maps.Clone(d.productModules),
		bpms:           maps.Clone(d.bpms),
		features:       maps.Clone(d.features),
		tenantFeatures: maps.Clone(d.tenantFeatures),
		seq:            maps.Clone(d.seq),
	}
}

func (d *state) nextID(table string) uint {
	d.seq[table]++
	return d.seq[table]
}

// FailOn makes the named store method return err until cleared with a nil
// err. It lets tests exercise rollback paths.
func (s *Store) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, method)
		return
	}
	s.faults[method] = err
}

// lock acquires the data mutex and reports an injected fault for method.
func (s *Store) lock(method string) error {
	s.mu.Lock()
	if err, ok := s.faults[method]; ok {
		s.mu.Unlock()
		return err
	}
	return nil
}

// lockWrite is lock for methods that change data. Outside a transaction
// it first waits for any running transaction.
func (s *Store) lockWrite(method string) error {
	if !s.inTx {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	return s.lock(method)
}

// Transaction runs fn with writes serialized against other transactions
// and against writes made outside one. Nested calls join the outer one.
func (s *Store) Transaction(ctx context.Context, fn func(tx store.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(&Store{shared: s.shared, inTx: true}); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) CheckConnectivity(ctx context.Context) error {
	if err := s.lock("CheckConnectivity"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	return ctx.Err()
}

func sortedIDs[T any](m map[uint]T) []uint {
	ids := make([]uint, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func values[T any](m map[uint]T, keep func(T) bool) []T {
	out := make([]T, 0, len(m))
	for _, id := range sortedIDs(m) {
		if keep == nil || keep(m[id]) {
			out = append(out, m[id])
		}
	}
	return out
}

func duplicate(entity, constraint string) error {
	return &store.DuplicateError{Entity: entity, Constraint: constraint}
}

func missingReference(entity, constraint string) error {
	return &store.ReferencedError{Entity: entity, Constraint: constraint, Detail: "referenced row does not exist"}
}
