package cube

// readProperty resolves a property read against an instance. Resolution
// order: explicit get_<name> accessor, then the declared context slot, then
// the native base. It is total: unknown names yield the native base's default
// (null for the generic base), never an error. An invoked accessor may itself
// fail, and that failure propagates.
func (exec *Execution) readProperty(inst *Instance, name string, pos Position) (Value, error) {
	accessor := getterPrefix + name
	if getter, ok := inst.ctx.GetOwn(accessor); ok && getter.Callable() && exec.acquireGuard(inst, accessor) {
		defer exec.releaseGuard(inst, accessor)
		return exec.callValue(getter, nil, pos)
	}
	if v, ok := inst.ctx.GetOwn(name); ok {
		return v, nil
	}
	return nativeGet(inst.native, name), nil
}

// writeProperty resolves a property write with the same ordering as
// readProperty. An explicit set_<name> accessor fully owns storage for the
// name; the plain slot is not separately updated. Without an accessor, an
// existing slot is updated in place; otherwise the write falls through to the
// native base and the stored value is read back so native getter/setter
// semantics are respected.
//
// A setter that assigns back to its own property re-enters this path and
// recurses without bound; that hazard is left in place by default and only
// broken when Config.AccessorGuard is enabled.
//
// The generic field bag accepts any name and value, so writes against it never
// fail. A reflect-backed base owns its typed fields and may reject a value it
// cannot hold; that rejection is the base's own failure and propagates to the
// caller.
func (exec *Execution) writeProperty(inst *Instance, name string, value Value, pos Position) (Value, error) {
	accessor := setterPrefix + name
	if setter, ok := inst.ctx.GetOwn(accessor); ok && setter.Callable() && exec.acquireGuard(inst, accessor) {
		defer exec.releaseGuard(inst, accessor)
		return exec.callValue(setter, []Value{value}, pos)
	}
	if inst.ctx.hasOwn(name) {
		inst.ctx.setOwn(name, value)
		return value, nil
	}
	if err := inst.native.SetField(name, value); err != nil {
		return NewNil(), exec.wrapError(err, pos)
	}
	return nativeGet(inst.native, name), nil
}

// acquireGuard reports whether the named accessor may run. With the guard
// disabled it always may; with the guard enabled, a re-entrant invocation for
// the same instance and accessor is refused, which makes the dispatcher fall
// through to the next resolution tier instead of recursing.
func (exec *Execution) acquireGuard(inst *Instance, accessor string) bool {
	if !exec.engine.config.AccessorGuard {
		return true
	}
	key := guardKey{inst: inst, name: accessor}
	if exec.guards[key] {
		return false
	}
	if exec.guards == nil {
		exec.guards = make(map[guardKey]bool)
	}
	exec.guards[key] = true
	return true
}

func (exec *Execution) releaseGuard(inst *Instance, accessor string) {
	if !exec.engine.config.AccessorGuard {
		return
	}
	delete(exec.guards, guardKey{inst: inst, name: accessor})
}
