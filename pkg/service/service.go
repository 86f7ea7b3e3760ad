package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/tenant-config/pkg/audit"
	"github.com/doodlesbykumbi/tenant-config/pkg/logger"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

// DefaultCreatedBy labels configuration rows written without a creator
const DefaultCreatedBy = "System"

// Recorder receives reconciliation outcomes. *metrics.Metrics implements it.
type Recorder interface {
	ObserveReconciliation(kind, result string, ops map[string]int)
}

// Options configure the services. Zero values fall back to defaults.
type Options struct {
	Sequencer        *Sequencer
	DefaultCreatedBy string

	// Audit receives every change event; defaults to audit.Log
	Audit func(audit.Event)

	Metrics Recorder
	Now     func() time.Time
}

// base is embedded in every service
type base struct {
	store     store.Store
	sequencer *Sequencer
	createdBy string
	audit     func(audit.Event)
	metrics   Recorder
	now       func() time.Time
}

func (b *base) log(ctx context.Context) *zap.Logger {
	return logger.FromContext(ctx)
}

func (b *base) observe(kind, result string, ops map[string]int) {
	if b.metrics != nil {
		b.metrics.ObserveReconciliation(kind, result, ops)
	}
}

// recordChange audits a create, update or delete
func (b *base) recordChange(ctx context.Context, entity, id, op string, err error) {
	event := audit.ChangeEvent{
		Actor:     ActorFromContext(ctx),
		Entity:    entity,
		EntityID:  id,
		Operation: op,
		Success:   err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	b.audit(event)
}

// Services bundles one instance of each service over a shared store
type Services struct {
	Countries      *CountryService
	Tenants        *TenantService
	Branches       *BranchService
	ProductTags    *ProductTagService
	Products       *ProductService
	Modules        *ModuleService
	ProductModules *ProductModuleService
	Features       *FeatureService
	Configuration  *ConfigurationService
	TenantFeatures *TenantFeatureService

	Sequencer *Sequencer
}

// New wires every service to st
func New(st store.Store, opts Options) *Services {
	b := &base{
		store:     st,
		sequencer: opts.Sequencer,
		createdBy: opts.DefaultCreatedBy,
		audit:     opts.Audit,
		metrics:   opts.Metrics,
		now:       opts.Now,
	}
	if b.sequencer == nil {
		b.sequencer = NewSequencer(nil)
	}
	if b.createdBy == "" {
		b.createdBy = DefaultCreatedBy
	}
	if b.audit == nil {
		b.audit = audit.Log
	}
	if b.now == nil {
		b.now = time.Now
	}

	return &Services{
		Countries:      &CountryService{b},
		Tenants:        &TenantService{b},
		Branches:       &BranchService{b},
		ProductTags:    &ProductTagService{b},
		Products:       &ProductService{b},
		Modules:        &ModuleService{b},
		ProductModules: &ProductModuleService{b},
		Features:       &FeatureService{b},
		Configuration:  &ConfigurationService{b},
		TenantFeatures: &TenantFeatureService{b},
		Sequencer:      b.sequencer,
	}
}

type actorKey struct{}

// WithActor records who is calling so audit events can name them
func WithActor(ctx context.Context, actor audit.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored by WithActor
func ActorFromContext(ctx context.Context) audit.Actor {
	actor, _ := ctx.Value(actorKey{}).(audit.Actor)
	return actor
}

// Result is the outcome of a reconciliation: "success" when rows changed,
// "info" otherwise
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

const (
	StatusSuccess = "success"
	StatusInfo    = "info"
)
