package cube

// evalNew resolves the class or native type named by a new expression and
// instantiates it.
func (exec *Execution) evalNew(e *NewExpr, ctx *Context) (Value, error) {
	args := make([]Value, len(e.Args))
	for i, arg := range e.Args {
		v, err := exec.evalExpression(arg, ctx)
		if err != nil {
			return NewNil(), err
		}
		args[i] = v
	}

	if v, ok := ctx.Get(e.Name); ok {
		switch v.Kind() {
		case KindClass:
			inst, err := exec.instantiate(v.Class(), ctx, args, e.Pos())
			if err != nil {
				return NewNil(), exec.wrapError(err, e.Pos())
			}
			return NewInstance(inst), nil
		case KindNativeType:
			obj, err := v.nativeType().New(args)
			if err != nil {
				return NewNil(), exec.wrapError(err, e.Pos())
			}
			return NewNative(obj), nil
		default:
			return NewNil(), exec.errorAt(e.Pos(), "%s is not a class", e.Name)
		}
	}

	if nt := exec.engine.lookupNativeType(e.Name); nt != nil {
		obj, err := nt.New(args)
		if err != nil {
			return NewNil(), exec.wrapError(err, e.Pos())
		}
		return NewNative(obj), nil
	}

	return NewNil(), exec.errorAt(e.Pos(), "unknown class %s", e.Name)
}

// instantiate builds a live instance from a template: it constructs the
// native base, creates the instance's private context, imports the filtered
// captured-binding snapshot, executes the template declarations, binds super,
// and finally invokes the script constructor.
//
// Failures before the instance exists surface as InitializationError. Once
// declarations start executing there is no rollback: a constructor that fails
// mid-way leaves the instance with whatever mutations already happened, and
// both the instance and the error are returned.
func (exec *Execution) instantiate(template *ClassTemplate, enclosing *Context, args []Value, pos Position) (*Instance, error) {
	native, err := exec.constructNativeBase(template, args)
	if err != nil {
		return nil, err
	}

	ctx := newContext(nil)

	members := make(map[string]struct{})
	for _, name := range native.FieldNames() {
		members[name] = struct{}{}
	}

	// Captured-binding snapshot: a one-time copy of the defining scope's own
	// bindings. Slots from deeper, transient blocks are skipped, and any name
	// the native base already owns is dropped so a captured outer variable
	// cannot hijack a native field. Later mutation of the enclosing scope
	// does not propagate into the instance.
	importSlot := func(s Slot) {
		if s.Depth > 0 {
			return
		}
		if s.Name == identSuper || s.Name == identThis {
			return
		}
		if _, taken := members[s.Name]; taken {
			return
		}
		if ctx.hasOwn(s.Name) {
			return
		}
		ctx.defineImported(s.Name, s.Value)
	}
	for _, s := range enclosing.Slots() {
		importSlot(s)
	}

	// Top-level script variables are visible to classes regardless of
	// declaration order; lexically captured bindings win on name clashes.
	if root := exec.root; root != nil && root != enclosing {
		for _, s := range root.Slots() {
			importSlot(s)
		}
	}

	inst := &Instance{template: template, ctx: ctx, native: native}
	ctx.owner = inst

	if _, _, err := exec.evalStatements(template.Declarations, ctx); err != nil {
		return nil, err
	}

	// super and this always shadow same-named captured bindings.
	ctx.Define(identSuper, superValue)
	ctx.Define(identThis, NewInstance(inst))

	if ctor, ok := ctx.GetOwn(identCtor); ok && ctor.Callable() {
		if _, err := exec.callValue(ctor, args, pos); err != nil {
			// The instance exists from this point on; constructor failures
			// propagate without undoing earlier mutations.
			return inst, err
		}
	}

	return inst, nil
}

func (exec *Execution) constructNativeBase(template *ClassTemplate, args []Value) (NativeObject, error) {
	if template.NativeBase == "" {
		return newBaseObject(), nil
	}
	nt := exec.engine.lookupNativeType(template.NativeBase)
	if nt == nil {
		return nil, &InitializationError{Class: template.Name, Base: template.NativeBase}
	}
	obj, err := nt.New(args)
	if err != nil {
		return nil, &InitializationError{Class: template.Name, Base: template.NativeBase, Err: err}
	}
	return obj, nil
}

func templateFromStmt(s *ClassStmt) *ClassTemplate {
	return &ClassTemplate{
		Name:         s.Name,
		NativeBase:   s.Extends,
		Interfaces:   s.Implements,
		Declarations: s.Body,
	}
}
