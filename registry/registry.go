// Package registry implements the process-wide type-name -> constructor
// map described in spec §4.3. The original walks every submodule under a
// configured package root at runtime; Go has no equivalent of Python's
// import machinery, so the registry is populated by explicit Register
// calls instead (see spec §9, "dynamic plug-in discovery" REDESIGN FLAG).
// Builtin node types register themselves via nodes.RegisterAll; additional
// (module, class) config entries from spec §6 are resolved by the same
// string-keyed lookup.
package registry

import (
	"context"
	"sync"

	"github.com/fossabot/seot-agent/dataflow"
	"github.com/fossabot/seot-agent/seotlog"
)

// BuildContext is the "scheduler-context handle" spec §4.4 says a
// GraphBuilder may supply to node constructors: the agent identity used to
// stamp envelopes, plus a base context for any long-lived resources a
// constructor wants to tie to agent lifetime.
type BuildContext struct {
	Identity dataflow.Identity
	Base     context.Context
}

// Constructor builds one node instance from its declared name and args
// map (spec §4.4: "args keys match the constructor's recognized options;
// extra keys forwarded, missing required keys surface at construction").
type Constructor func(name string, args map[string]interface{}, bc BuildContext) (dataflow.Node, error)

// CanRun is the registry-time capability predicate from spec §4.1:
// "static predicate, evaluated by the Registry only". It runs once, at
// Lookup time, not per node instance.
type CanRun func() bool

type entry struct {
	ctor   Constructor
	canRun CanRun
}

// Registry is a type-name -> constructor map, populated once at process
// init and treated as immutable thereafter (spec §3).
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// New returns an empty Registry. Most callers use Default.
func New() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Default is the process-wide registry instance every builtin node type
// and cmd/ entrypoint registers against.
var Default = New()

// Register adds typeName -> (ctor, canRun) to the registry. A second
// registration of the same type-name replaces the first (last-wins) and is
// logged at warning level (spec §4.3).
func (r *Registry) Register(typeName string, ctor Constructor, canRun CanRun) {
	if canRun == nil {
		canRun = func() bool { return true }
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[typeName]; exists {
		seotlog.WithComponent("registry").Warn().
			Str("type", typeName).
			Msg("replacing existing registration for node type")
	}
	r.entries[typeName] = entry{ctor: ctor, canRun: canRun}
}

// Lookup returns the constructor registered for typeName, provided its
// CanRun predicate currently evaluates true. A type registered but whose
// CanRun fails behaves as PlugInUnavailable (spec §7): Lookup reports it
// not found and logs at warn.
func (r *Registry) Lookup(typeName string) (Constructor, bool) {
	r.mu.RLock()
	e, ok := r.entries[typeName]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.canRun() {
		seotlog.WithComponent("registry").Warn().
			Str("type", typeName).
			Msg("node type unavailable on this platform")
		return nil, false
	}
	return e.ctor, true
}

// Has reports whether typeName is registered and currently runnable,
// without constructing anything — used by GraphBuilder validation (spec
// §4.4: "type present in the Registry").
func (r *Registry) Has(typeName string) bool {
	_, ok := r.Lookup(typeName)
	return ok
}

// TypeNames returns every registered, currently runnable type name, used
// by the Supervisor heartbeat body (spec §4.5, §6: "the list of registered
// node type names").
func (r *Registry) TypeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name, e := range r.entries {
		if e.canRun() {
			names = append(names, name)
		}
	}
	return names
}

// Register is a convenience wrapper registering against Default.
func Register(typeName string, ctor Constructor, canRun CanRun) {
	Default.Register(typeName, ctor, canRun)
}
