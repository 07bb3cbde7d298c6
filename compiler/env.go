package compiler

import (
	"github.com/risor-io/escompile/bytecode"
	"github.com/risor-io/escompile/op"
)

// envScope is a runtime environment opened by the current unit whose slot
// count is only known once the environment is closed.
type envScope struct {
	pool  uint32
	slots Label
}

// pushDeclarativeEnv opens a compile-time environment and emits the
// matching PushDeclarativeEnvironment.
func (c *ByteCompiler) pushDeclarativeEnv() envScope {
	return c.pushEnv(op.PushDeclarativeEnvironment, false)
}

// pushFunctionEnv opens the separate var environment of a function whose
// parameter list contains expressions.
func (c *ByteCompiler) pushFunctionEnv() envScope {
	return c.pushEnv(op.PushFunctionEnvironment, true)
}

func (c *ByteCompiler) pushEnv(code op.Code, function bool) envScope {
	c.arena.PushCompileTimeEnvironment(c.ctx.strict, function)
	pool := uint32(len(c.envs))
	c.envs = append(c.envs, bytecode.Environment{})
	start := len(c.code)
	c.emit(code, 0, uint64(pool))
	return envScope{pool: pool, slots: c.reserve(start + 1)}
}

// closeEnv closes the compile-time environment and fills in its descriptor
// and slot count without emitting PopEnvironment.
func (c *ByteCompiler) closeEnv(env envScope) {
	slots, index := c.arena.PopCompileTimeEnvironment()
	c.envs[env.pool] = c.arena.Environment(index)
	c.patch(env.slots, slots)
}

// popEnv closes the environment and emits PopEnvironment.
func (c *ByteCompiler) popEnv(env envScope) {
	c.closeEnv(env)
	c.emit(op.PopEnvironment)
}

// emitBinding emits an opcode whose operand is a binding locator.
func (c *ByteCompiler) emitBinding(code op.Code, loc bytecode.BindingLocator) {
	c.emitU32(code, c.getOrInsertBinding(loc))
}
