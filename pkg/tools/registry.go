package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Result is the opaque output of a capability, recorded on the task log.
type Result map[string]interface{}

// Capability is one named action a task step may invoke. Capabilities are the
// only way the core reaches external accounts (mail, calendar, CRM).
type Capability interface {
	Name() string
	Execute(ctx context.Context, userId uuid.UUID, params map[string]interface{}, taskContext map[string]interface{}) (Result, error)
}

// Registry maps action names to capabilities. Registration happens at
// bootstrap; lookups happen on every step execution.
type Registry struct {
	mu           sync.RWMutex
	capabilities map[string]Capability
}

func NewRegistry() *Registry {
	return &Registry{
		capabilities: make(map[string]Capability),
	}
}

func (r *Registry) Register(c Capability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capabilities[c.Name()] = c
}

// Resolve returns the capability for an action name.
func (r *Registry) Resolve(action string) (Capability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.capabilities[action]
	if !ok {
		return nil, fmt.Errorf("unknown action: %s", action)
	}
	return c, nil
}

// Names lists registered action names; used by the task planner prompt.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.capabilities))
	for name := range r.capabilities {
		names = append(names, name)
	}
	return names
}
