package httpapi

import (
	"sync"

	"github.com/example/hotel-booking-workflow/internal/booking"
)

// Registry holds live workflow instances by id. Each instance belongs to
// one client session; removing it closes the workflow.
type Registry struct {
	mu        sync.Mutex
	workflows map[string]*booking.Workflow
}

func NewRegistry() *Registry {
	return &Registry{workflows: make(map[string]*booking.Workflow)}
}

func (r *Registry) Add(w *booking.Workflow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workflows[w.ID] = w
}

func (r *Registry) Get(id string) (*booking.Workflow, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workflows[id]
	return w, ok
}

// Remove tears the workflow down. In-flight stage requests are cancelled
// and their results discarded.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	w, ok := r.workflows[id]
	delete(r.workflows, id)
	r.mu.Unlock()
	if ok {
		w.Close()
	}
	return ok
}

// CloseAll tears down every live workflow, used on server shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	workflows := r.workflows
	r.workflows = make(map[string]*booking.Workflow)
	r.mu.Unlock()
	for _, w := range workflows {
		w.Close()
	}
}
