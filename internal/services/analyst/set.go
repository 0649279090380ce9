package analyst

import (
	"math"
	"sync"

	"StockAdvisor/internal/domain/models"
	"StockAdvisor/internal/domain/service"
)

// Weight bounds applied by UpdateWeights.
const (
	MinWeight = 0.1
	MaxWeight = 3.0
)

// Set is the configured, ordered role roster. Weight updates swap the roster, so a
// snapshot taken by an in-flight analysis is never mutated.
type Set struct {
	mu    sync.RWMutex
	roles []*Role
}

// NewSet builds the roster named by order from the default catalogue.
// weightOf supplies the configured weight per role name.
func NewSet(order []string, weightOf func(string) float64, completer service.Completer, sampling models.SamplingConfig) (*Set, error) {
	if len(order) == 0 {
		order = DefaultOrder
	}
	specs := DefaultSpecs()
	seen := make(map[string]bool, len(order))
	roles := make([]*Role, 0, len(order))
	for _, name := range order {
		spec, ok := specs[name]
		if !ok {
			return nil, models.NewConfigurationError("analysis.roles", "unknown role %q", name)
		}
		if seen[name] {
			return nil, models.NewConfigurationError("analysis.roles", "duplicate role %q", name)
		}
		seen[name] = true
		if weightOf != nil {
			spec.Weight = weightOf(name)
		}
		r, err := NewRole(spec, completer, sampling)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return &Set{roles: roles}, nil
}

// Roles returns a snapshot of the roster in configured order.
func (s *Set) Roles() []service.Analyst {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]service.Analyst, len(s.roles))
	for i, r := range s.roles {
		out[i] = r
	}
	return out
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.roles)
}

// Info describes the roster for the roles endpoint.
func (s *Set) Info() []models.RoleInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.RoleInfo, len(s.roles))
	for i, r := range s.roles {
		out[i] = models.RoleInfo{Name: r.Name(), DisplayName: r.DisplayName(), Weight: r.Weight()}
	}
	return out
}

// UpdateWeights scales each scored role's weight by (0.5 + score), clamped to
// [MinWeight, MaxWeight]. Roles without a score keep their weight. It returns the
// resulting weights.
func (s *Set) UpdateWeights(scores map[string]float64) map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]*Role, len(s.roles))
	weights := make(map[string]float64, len(s.roles))
	for i, r := range s.roles {
		next[i] = r
		if score, ok := scores[r.Name()]; ok && !math.IsNaN(score) {
			w := r.Weight() * (0.5 + score)
			next[i] = r.withWeight(math.Min(MaxWeight, math.Max(MinWeight, w)))
		}
		weights[r.Name()] = next[i].Weight()
	}
	s.roles = next
	return weights
}

// Describe lists the roster order would produce without building any role.
// It needs no completer, so it works before credentials are configured.
func Describe(order []string, weightOf func(string) float64) ([]models.RoleInfo, error) {
	if len(order) == 0 {
		order = DefaultOrder
	}
	specs := DefaultSpecs()
	out := make([]models.RoleInfo, 0, len(order))
	for _, name := range order {
		spec, ok := specs[name]
		if !ok {
			return nil, models.NewConfigurationError("analysis.roles", "unknown role %q", name)
		}
		if weightOf != nil {
			spec.Weight = weightOf(name)
		}
		out = append(out, models.RoleInfo{Name: spec.Name, DisplayName: spec.DisplayName, Weight: spec.Weight})
	}
	return out, nil
}
