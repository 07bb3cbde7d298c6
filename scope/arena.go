// Package scope resolves ECMAScript identifiers to binding locators at
// compile time.
//
// An Arena owns every compile-time environment created while compiling a
// program. Environments are addressed by integer index and form a stack
// that mirrors the environments the VM will create at run time: the
// compiler pushes one environment per function body and one per block,
// loop or catch clause that declares lexical names. Nested functions share
// the arena of their enclosing unit so that closures resolve through the
// same chain.
//
// The outermost environment is the script scope. Names bound there, and
// names that cannot be resolved at all, become global locators that the VM
// looks up by name.
package scope

import (
	"fmt"

	"github.com/risor-io/escompile/bytecode"
)

// Binding is a name declared in an environment.
type Binding struct {
	Name    string
	Index   uint32
	Mutable bool
}

// Env is one compile-time environment.
type Env struct {
	index    uint32
	parent   int
	function bool
	strict   bool
	names    []string
	bindings map[string]*Binding
}

// Index returns the arena index of the environment.
func (e *Env) Index() uint32 {
	return e.index
}

// IsFunction reports whether the environment is a function (var) scope.
func (e *Env) IsFunction() bool {
	return e.function
}

// Strict reports whether code in the environment is strict mode code.
func (e *Env) Strict() bool {
	return e.strict
}

// Count returns the number of bindings declared in the environment.
func (e *Env) Count() uint32 {
	return uint32(len(e.names))
}

// Get returns the binding with the given name declared directly in this
// environment.
func (e *Env) Get(name string) (*Binding, bool) {
	b, ok := e.bindings[name]
	return b, ok
}

func (e *Env) declare(name string, mutable bool) bool {
	if _, ok := e.bindings[name]; ok {
		return false
	}
	b := &Binding{Name: name, Index: uint32(len(e.names)), Mutable: mutable}
	e.names = append(e.names, name)
	e.bindings[name] = b
	return true
}

// Arena holds all compile-time environments of a program.
type Arena struct {
	envs  []*Env
	stack []int
}

// NewArena returns an arena whose only environment is the script scope.
func NewArena() *Arena {
	a := &Arena{}
	a.push(true, false)
	return a
}

func (a *Arena) push(function, strict bool) uint32 {
	parent := -1
	if len(a.stack) > 0 {
		parent = a.stack[len(a.stack)-1]
	}
	env := &Env{
		index:    uint32(len(a.envs)),
		parent:   parent,
		function: function,
		strict:   strict,
		bindings: map[string]*Binding{},
	}
	a.envs = append(a.envs, env)
	a.stack = append(a.stack, int(env.index))
	return env.index
}

// PushCompileTimeEnvironment opens a new environment nested in the current
// one and returns its arena index. Strictness is inherited from the
// enclosing environment unless strict is set.
func (a *Arena) PushCompileTimeEnvironment(strict, function bool) uint32 {
	return a.push(function, strict || a.Current().strict)
}

// PopCompileTimeEnvironment closes the current environment and returns the
// number of binding slots it needs and its arena index. The script scope
// cannot be popped.
func (a *Arena) PopCompileTimeEnvironment() (slots uint32, index uint32) {
	if len(a.stack) <= 1 {
		panic("scope: cannot pop the script environment")
	}
	env := a.Current()
	a.stack = a.stack[:len(a.stack)-1]
	return env.Count(), env.index
}

// Current returns the innermost open environment.
func (a *Arena) Current() *Env {
	return a.envs[a.stack[len(a.stack)-1]]
}

// Depth returns the number of open environments, the script scope included.
func (a *Arena) Depth() int {
	return len(a.stack)
}

// Checkpoint records the state of an arena so that a failed compilation
// can be rolled back with Restore.
type Checkpoint struct {
	envs   int
	stack  int
	script int
}

// Checkpoint returns the current state of the arena.
func (a *Arena) Checkpoint() Checkpoint {
	return Checkpoint{
		envs:   len(a.envs),
		stack:  len(a.stack),
		script: len(a.envs[0].names),
	}
}

// Restore closes every environment opened since cp was taken, discards
// environments created since then and removes script scope names declared
// since then.
func (a *Arena) Restore(cp Checkpoint) {
	if cp.stack < 1 || cp.stack > len(a.stack) || cp.envs > len(a.envs) {
		panic("scope: checkpoint does not belong to this arena state")
	}
	a.stack = a.stack[:cp.stack]
	a.envs = a.envs[:cp.envs]
	script := a.envs[0]
	for _, name := range script.names[cp.script:] {
		delete(script.bindings, name)
	}
	script.names = script.names[:cp.script]
}

// IsGlobal reports whether the current environment is the script scope.
func (a *Arena) IsGlobal() bool {
	return len(a.stack) == 1
}

// SetStrict marks the current environment as strict mode code.
func (a *Arena) SetStrict() {
	a.Current().strict = true
}

// functionScope returns the stack position of the nearest function scope.
func (a *Arena) functionScope() int {
	for i := len(a.stack) - 1; i > 0; i-- {
		if a.envs[a.stack[i]].function {
			return i
		}
	}
	return 0
}

// CreateMutableBinding declares a mutable binding. Function-scoped
// bindings (var and function declarations) are placed in the nearest
// function scope, all others in the current environment. It returns false
// if the name was already declared there.
func (a *Arena) CreateMutableBinding(name string, functionScope bool) bool {
	pos := len(a.stack) - 1
	if functionScope {
		pos = a.functionScope()
	}
	return a.envs[a.stack[pos]].declare(name, true)
}

// CreateImmutableBinding declares a const binding in the current
// environment.
func (a *Arena) CreateImmutableBinding(name string) bool {
	return a.Current().declare(name, false)
}

// HasBinding reports whether name is declared in the current environment.
func (a *Arena) HasBinding(name string) bool {
	_, ok := a.Current().bindings[name]
	return ok
}

// HasFunctionScopedBinding reports whether name is declared in the nearest
// function scope.
func (a *Arena) HasFunctionScopedBinding(name string) bool {
	_, ok := a.envs[a.stack[a.functionScope()]].bindings[name]
	return ok
}

// InitializeMutableBinding returns the locator used to initialize a
// binding created by CreateMutableBinding or CreateImmutableBinding.
func (a *Arena) InitializeMutableBinding(name string, functionScope bool) bytecode.BindingLocator {
	if functionScope {
		return a.resolveFrom(name, a.functionScope())
	}
	return a.resolveFrom(name, len(a.stack)-1)
}

// SetMutableBinding returns the locator used to assign to name.
func (a *Arena) SetMutableBinding(name string) bytecode.BindingLocator {
	return a.resolveFrom(name, len(a.stack)-1)
}

// GetBindingValue returns the locator used to read name.
func (a *Arena) GetBindingValue(name string) bytecode.BindingLocator {
	return a.resolveFrom(name, len(a.stack)-1)
}

// Lookup returns the binding a name resolves to, or false for globals and
// unresolved names.
func (a *Arena) Lookup(name string) (*Binding, bool) {
	for i := len(a.stack) - 1; i > 0; i-- {
		if b, ok := a.envs[a.stack[i]].bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// resolveFrom searches outward starting at stack position start. The hop
// count is measured from the innermost environment.
func (a *Arena) resolveFrom(name string, start int) bytecode.BindingLocator {
	top := len(a.stack) - 1
	for i := start; i > 0; i-- {
		env := a.envs[a.stack[i]]
		if b, ok := env.bindings[name]; ok {
			return bytecode.BindingLocator{
				Name:  name,
				Depth: uint32(top - i),
				Index: b.Index,
			}
		}
	}
	return bytecode.GlobalBinding(name)
}

// Environment returns the descriptor of the environment at the given arena
// index.
func (a *Arena) Environment(index uint32) bytecode.Environment {
	if int(index) >= len(a.envs) {
		panic(fmt.Sprintf("scope: environment %d does not exist", index))
	}
	env := a.envs[index]
	names := make([]string, len(env.names))
	copy(names, env.names)
	return bytecode.Environment{
		Index:    env.index,
		Slots:    env.Count(),
		Names:    names,
		Function: env.function,
	}
}

// EnvironmentCount returns the number of environments ever created.
func (a *Arena) EnvironmentCount() int {
	return len(a.envs)
}

// AllNames returns every name visible from the current environment,
// innermost first. It is used for "did you mean" suggestions.
func (a *Arena) AllNames() []string {
	seen := map[string]bool{}
	var names []string
	for i := len(a.stack) - 1; i >= 0; i-- {
		for _, name := range a.envs[a.stack[i]].names {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
