package cube

import "errors"

func (exec *Execution) evalExpression(expr Expression, ctx *Context) (Value, error) {
	switch e := expr.(type) {
	case *Identifier:
		if v, ok := ctx.Get(e.Name); ok {
			return v, nil
		}
		return NewNil(), exec.errorAt(e.Pos(), "undefined identifier %s", e.Name)

	case *IntegerLiteral:
		return NewInt(e.Value), nil
	case *FloatLiteral:
		return NewFloat(e.Value), nil
	case *StringLiteral:
		return NewString(e.Value), nil
	case *BooleanLiteral:
		return NewBool(e.Value), nil
	case *NullLiteral:
		return NewNil(), nil

	case *ArrayLiteral:
		elements := make([]Value, len(e.Elements))
		for i, el := range e.Elements {
			v, err := exec.evalExpression(el, ctx)
			if err != nil {
				return NewNil(), err
			}
			elements[i] = v
		}
		return NewArray(elements), nil

	case *MapLiteral:
		m := newMapObj()
		for i := range e.Keys {
			kv, err := exec.evalExpression(e.Keys[i], ctx)
			if err != nil {
				return NewNil(), err
			}
			key, err := exec.mapKey(kv, e.Keys[i].Pos())
			if err != nil {
				return NewNil(), err
			}
			vv, err := exec.evalExpression(e.Values[i], ctx)
			if err != nil {
				return NewNil(), err
			}
			m.Set(key, vv)
		}
		return newMapValue(m), nil

	case *FunctionLiteral:
		fn := &ScriptFunction{
			Params:  e.Params,
			Body:    e.Body,
			Pos:     e.Pos(),
			closure: ctx,
			owner:   ownerOf(ctx),
		}
		return NewFunction(fn), nil

	case *PrefixExpr:
		right, err := exec.evalExpression(e.Right, ctx)
		if err != nil {
			return NewNil(), err
		}
		return exec.applyPrefix(e.Operator, right, e.Pos())

	case *InfixExpr:
		left, err := exec.evalExpression(e.Left, ctx)
		if err != nil {
			return NewNil(), err
		}
		switch e.Operator {
		case "&&":
			if !left.Truthy() {
				return NewBool(false), nil
			}
			right, err := exec.evalExpression(e.Right, ctx)
			if err != nil {
				return NewNil(), err
			}
			return NewBool(right.Truthy()), nil
		case "||":
			if left.Truthy() {
				return NewBool(true), nil
			}
			right, err := exec.evalExpression(e.Right, ctx)
			if err != nil {
				return NewNil(), err
			}
			return NewBool(right.Truthy()), nil
		}
		right, err := exec.evalExpression(e.Right, ctx)
		if err != nil {
			return NewNil(), err
		}
		return exec.applyInfix(e.Operator, left, right, e.Pos())

	case *CallExpr:
		callee, err := exec.evalExpression(e.Callee, ctx)
		if err != nil {
			return NewNil(), err
		}
		args := make([]Value, len(e.Args))
		for i, arg := range e.Args {
			v, err := exec.evalExpression(arg, ctx)
			if err != nil {
				return NewNil(), err
			}
			args[i] = v
		}
		return exec.callValue(callee, args, e.Pos())

	case *MemberExpr:
		obj, err := exec.evalExpression(e.Object, ctx)
		if err != nil {
			return NewNil(), err
		}
		return exec.member(obj, e.Property, e.Pos())

	case *IndexExpr:
		obj, err := exec.evalExpression(e.Object, ctx)
		if err != nil {
			return NewNil(), err
		}
		index, err := exec.evalExpression(e.Index, ctx)
		if err != nil {
			return NewNil(), err
		}
		return exec.index(obj, index, e.Pos())

	case *NewExpr:
		return exec.evalNew(e, ctx)

	default:
		return NewNil(), exec.errorAt(expr.Pos(), "unsupported expression")
	}
}

func (exec *Execution) member(obj Value, property string, pos Position) (Value, error) {
	switch obj.Kind() {
	case KindInstance:
		return exec.readProperty(obj.Instance(), property, pos)

	case KindSuper:
		// Super access delegates to the current instance's native base,
		// bypassing the script layer entirely.
		self := exec.currentSelf()
		if self == nil {
			return NewNil(), exec.errorAt(pos, "super used outside of a class")
		}
		return nativeGet(self.native, property), nil

	case KindNative:
		return nativeGet(obj.Native(), property), nil

	case KindClass:
		template := obj.Class()
		switch property {
		case "name":
			return NewString(template.Name), nil
		case "interfaces":
			names := make([]Value, len(template.Interfaces))
			for i, name := range template.Interfaces {
				names[i] = NewString(name)
			}
			return NewArray(names), nil
		}
		return NewNil(), exec.errorAt(pos, "class %s has no member %s", template.Name, property)

	case KindMap:
		if v, ok := obj.Map().Get(property); ok {
			return v, nil
		}
		if property == "length" {
			return NewInt(int64(obj.Map().Len())), nil
		}
		return NewNil(), nil

	case KindArray:
		if property == "length" {
			return NewInt(int64(len(obj.Array().Elements))), nil
		}
		return NewNil(), exec.errorAt(pos, "array has no member %s", property)

	case KindString:
		if property == "length" {
			return NewInt(int64(len([]rune(obj.Str())))), nil
		}
		return NewNil(), exec.errorAt(pos, "string has no member %s", property)

	default:
		return NewNil(), exec.errorAt(pos, "cannot read property %s of %s", property, obj.Kind())
	}
}

func (exec *Execution) index(obj, index Value, pos Position) (Value, error) {
	switch obj.Kind() {
	case KindArray:
		arr := obj.Array()
		i := index.Int()
		if !isNumeric(index) || i < 0 || i >= int64(len(arr.Elements)) {
			return NewNil(), exec.errorAt(pos, "array index %s out of range", index)
		}
		return arr.Elements[i], nil
	case KindMap:
		key, err := exec.mapKey(index, pos)
		if err != nil {
			return NewNil(), err
		}
		if v, ok := obj.Map().Get(key); ok {
			return v, nil
		}
		return NewNil(), nil
	case KindString:
		runes := []rune(obj.Str())
		i := index.Int()
		if !isNumeric(index) || i < 0 || i >= int64(len(runes)) {
			return NewNil(), exec.errorAt(pos, "string index %s out of range", index)
		}
		return NewString(string(runes[i])), nil
	default:
		return NewNil(), exec.errorAt(pos, "cannot index %s", obj.Kind())
	}
}

func (exec *Execution) callValue(callee Value, args []Value, pos Position) (Value, error) {
	switch callee.Kind() {
	case KindBuiltin:
		b := callee.Builtin()
		v, err := b.Fn(exec, args)
		if err != nil {
			return NewNil(), exec.wrapError(err, pos)
		}
		return v, nil

	case KindFunction:
		return exec.callFunction(callee.Function(), args, pos)

	case KindSuper:
		// The native base was constructed before declarations ran, so a
		// direct super(...) call in a constructor has nothing left to do.
		return NewNil(), nil

	default:
		return NewNil(), exec.errorAt(pos, "%s is not callable", callee.Kind())
	}
}

func (exec *Execution) callFunction(fn *ScriptFunction, args []Value, pos Position) (Value, error) {
	if exec.recursionCap > 0 && len(exec.callStack) >= exec.recursionCap {
		return NewNil(), exec.errorAt(pos, "recursion limit exceeded (%d)", exec.recursionCap)
	}

	name := fn.Name
	if name == "" {
		name = "<anonymous>"
	}
	exec.callStack = append(exec.callStack, callFrame{Function: name, Pos: pos})
	defer func() { exec.callStack = exec.callStack[:len(exec.callStack)-1] }()

	if fn.owner != nil {
		exec.selfStack = append(exec.selfStack, fn.owner)
		defer func() { exec.selfStack = exec.selfStack[:len(exec.selfStack)-1] }()
	}

	local := newContext(fn.closure)
	for i, param := range fn.Params {
		if i < len(args) {
			local.Define(param, args[i])
		} else {
			local.Define(param, NewNil())
		}
	}

	value, returned, err := exec.evalStatements(fn.Body, local)
	if err != nil {
		if errors.Is(err, errLoopBreak) || errors.Is(err, errLoopNext) {
			return NewNil(), exec.errorAt(pos, "break or continue used outside of a loop")
		}
		return NewNil(), err
	}
	if !returned {
		return NewNil(), nil
	}
	return value, nil
}
