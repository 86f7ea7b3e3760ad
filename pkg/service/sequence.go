package service

import (
	"sort"
	"sync"

	"github.com/doodlesbykumbi/tenant-config/pkg/config"
)

// Sequencer orders modules for display by configured weight. Weights can
// be swapped at runtime when the config file changes.
type Sequencer struct {
	mu      sync.RWMutex
	weights map[uint]int
}

// NewSequencer returns a Sequencer over weights. A nil map uses the
// default sequence.
func NewSequencer(weights map[uint]int) *Sequencer {
	s := &Sequencer{}
	s.Set(weights)
	return s
}

// Set replaces the weights
func (s *Sequencer) Set(weights map[uint]int) {
	if weights == nil {
		weights = config.DefaultModuleSequences()
	}
	copied := make(map[uint]int, len(weights))
	for id, w := range weights {
		copied[id] = w
	}

	s.mu.Lock()
	s.weights = copied
	s.mu.Unlock()
}

// weight returns the display weight of moduleID. Callers hold s.mu.
func (s *Sequencer) weight(moduleID uint) int {
	if w, ok := s.weights[moduleID]; ok {
		return w
	}
	return config.UnsequencedWeight
}

// sortModules orders items by module weight. Equal weights keep their
// input order.
func sortModules[T any](s *Sequencer, items []T, moduleID func(T) uint) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sort.SliceStable(items, func(i, j int) bool {
		return s.weight(moduleID(items[i])) < s.weight(moduleID(items[j]))
	})
}
