package solver

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/alexanderramin/whittle/internal/casedir"
	"github.com/alexanderramin/whittle/internal/dictionary"
	"github.com/alexanderramin/whittle/internal/llm"
	"github.com/alexanderramin/whittle/internal/mesh"
	"go.uber.org/zap"
)

// PromptSource supplies the canned prompts of one solver.
type PromptSource interface {
	SystemPrompt() string
	InitialPrompt() string
	// MissingFilesPrompt asks the model for exactly the given files.
	MissingFilesPrompt(missing []string) string
}

// Options carries everything a factory needs to assemble a session.
type Options struct {
	CaseDir string
	LLM     llm.Config

	// Client replaces the client built from LLM.
	Client   llm.ChatClient
	Observer llm.Observer

	// Reporter receives one event per written dictionary.
	Reporter dictionary.Reporter
	Logger   *zap.Logger

	// MeshOutput receives the output of mesh commands.
	MeshOutput io.Writer

	// CommandRunner replaces the subprocess runner for mesh steps.
	CommandRunner mesh.CommandRunner
	// Prompts replaces the solver's own prompts.
	Prompts PromptSource
}

// Components is the set of collaborators the assistant drives for one
// solver. Only the solver-specific parts differ between factories.
type Components struct {
	Prompts      PromptSource
	Conversation *llm.Conversation
	Dictionaries *dictionary.Manager
	Paths        casedir.PathResolver
	Mesh         mesh.Executor
}

// Factory assembles the components for one case.
type Factory func(ctx context.Context, opts Options) (*Components, error)

// Registry maps solver ids to factories. Ids are case-insensitive.
// Registration happens once at startup; after Seal the registry is
// read-only.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	names     map[string]string
	sealed    bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: map[string]Factory{},
		names:     map[string]string{},
	}
}

// Register installs a solver factory under id.
func (r *Registry) Register(id, displayName string, factory Factory) error {
	key := normalizeID(id)
	if key == "" {
		return fmt.Errorf("solver: id is required")
	}
	if factory == nil {
		return fmt.Errorf("solver: factory is required for %s", key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("%w: cannot register %s", ErrRegistrySealed, key)
	}
	if _, exists := r.factories[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateSolver, key)
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = key
	}
	r.factories[key] = factory
	r.names[key] = displayName
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(id, displayName string, factory Factory) {
	if err := r.Register(id, displayName, factory); err != nil {
		panic(err)
	}
}

// Seal stops further registration.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Create builds the components for id. Unknown ids yield a *NotFoundError.
func (r *Registry) Create(ctx context.Context, id string, opts Options) (*Components, error) {
	key := normalizeID(id)
	r.mu.RLock()
	factory, ok := r.factories[key]
	r.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{ID: id, Available: r.IDs()}
	}
	components, err := factory(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("creating %s components: %w", key, err)
	}
	return components, nil
}

// DisplayName returns the human name registered for id.
func (r *Registry) DisplayName(id string) string {
	key := normalizeID(id)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.names[key]; ok {
		return name
	}
	return key
}

// IDs returns the registered solver ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
