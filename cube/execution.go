package cube

import (
	"context"
	"errors"
)

type callFrame struct {
	Function string
	Pos      Position
}

type guardKey struct {
	inst *Instance
	name string
}

// Execution is the per-call evaluation state: step budget, call stack, the
// receiver stack for super resolution, and the optional accessor re-entrancy
// guard table. Executions are single-threaded and run to completion.
type Execution struct {
	engine *Engine
	script *Script
	ctx    context.Context

	root *Context

	steps        int
	quota        int
	recursionCap int

	callStack []callFrame
	selfStack []*Instance
	guards    map[guardKey]bool
}

func (exec *Execution) currentSelf() *Instance {
	if len(exec.selfStack) == 0 {
		return nil
	}
	return exec.selfStack[len(exec.selfStack)-1]
}

// ownerOf finds the instance whose private context encloses ctx, if any.
func ownerOf(ctx *Context) *Instance {
	for c := ctx; c != nil; c = c.parent {
		if c.owner != nil {
			return c.owner
		}
	}
	return nil
}

// evalStatements runs stmts in ctx. The bool result reports an executed
// return statement; the Value is the returned value, or the value of the last
// expression statement otherwise.
func (exec *Execution) evalStatements(stmts []Statement, ctx *Context) (Value, bool, error) {
	last := NewNil()
	for _, stmt := range stmts {
		value, returned, err := exec.evalStatement(stmt, ctx)
		if err != nil {
			return NewNil(), false, err
		}
		if returned {
			return value, true, nil
		}
		last = value
	}
	return last, false, nil
}

func (exec *Execution) evalStatement(stmt Statement, ctx *Context) (Value, bool, error) {
	if err := exec.step(); err != nil {
		return NewNil(), false, exec.wrapError(err, stmt.Pos())
	}

	switch s := stmt.(type) {
	case *VarStmt:
		value := NewNil()
		if s.Value != nil {
			v, err := exec.evalExpression(s.Value, ctx)
			if err != nil {
				return NewNil(), false, err
			}
			value = v
		}
		ctx.Define(s.Name, value)
		return NewNil(), false, nil

	case *FunctionStmt:
		fn := &ScriptFunction{
			Name:    s.Name,
			Params:  s.Params,
			Body:    s.Body,
			Pos:     s.Pos(),
			closure: ctx,
			owner:   ownerOf(ctx),
		}
		ctx.Define(s.Name, NewFunction(fn))
		return NewNil(), false, nil

	case *ClassStmt:
		template := exec.script.classes[s.Name]
		if template == nil {
			template = templateFromStmt(s)
		}
		ctx.Define(s.Name, NewClass(template))
		return NewNil(), false, nil

	case *ImportStmt:
		nt := exec.engine.lookupNativeType(joinPath(s.Path))
		if nt == nil {
			nt = exec.engine.lookupNativeType(s.Path[len(s.Path)-1])
		}
		if nt == nil {
			return NewNil(), false, exec.errorAt(s.Pos(), "unknown import %s", joinPath(s.Path))
		}
		// A name the script already declared is not clobbered by an import.
		name := s.Path[len(s.Path)-1]
		if !ctx.hasOwn(name) {
			ctx.Define(name, newNativeTypeValue(nt))
		}
		return NewNil(), false, nil

	case *AssignStmt:
		value, err := exec.evalExpression(s.Value, ctx)
		if err != nil {
			return NewNil(), false, err
		}
		if err := exec.assign(s.Target, value, ctx); err != nil {
			return NewNil(), false, err
		}
		return NewNil(), false, nil

	case *ReturnStmt:
		value := NewNil()
		if s.Value != nil {
			v, err := exec.evalExpression(s.Value, ctx)
			if err != nil {
				return NewNil(), false, err
			}
			value = v
		}
		return value, true, nil

	case *BreakStmt:
		return NewNil(), false, errLoopBreak

	case *ContinueStmt:
		return NewNil(), false, errLoopNext

	case *IfStmt:
		cond, err := exec.evalExpression(s.Condition, ctx)
		if err != nil {
			return NewNil(), false, err
		}
		branch := s.Consequent
		if !cond.Truthy() {
			branch = s.Alternate
		}
		if len(branch) == 0 {
			return NewNil(), false, nil
		}
		mark := ctx.enterBlock()
		value, returned, err := exec.evalStatements(branch, ctx)
		ctx.exitBlock(mark)
		return value, returned, err

	case *WhileStmt:
		for {
			// Each iteration costs a step even when the body is empty.
			if err := exec.step(); err != nil {
				return NewNil(), false, exec.wrapError(err, s.Pos())
			}
			cond, err := exec.evalExpression(s.Condition, ctx)
			if err != nil {
				return NewNil(), false, err
			}
			if !cond.Truthy() {
				return NewNil(), false, nil
			}
			mark := ctx.enterBlock()
			value, returned, err := exec.evalStatements(s.Body, ctx)
			ctx.exitBlock(mark)
			if err != nil {
				if errors.Is(err, errLoopBreak) {
					return NewNil(), false, nil
				}
				if errors.Is(err, errLoopNext) {
					continue
				}
				return NewNil(), false, err
			}
			if returned {
				return value, true, nil
			}
		}

	case *ForStmt:
		iterable, err := exec.evalExpression(s.Iterable, ctx)
		if err != nil {
			return NewNil(), false, err
		}
		items, err := exec.iterate(iterable, s.Pos())
		if err != nil {
			return NewNil(), false, err
		}
		for _, item := range items {
			mark := ctx.enterBlock()
			ctx.Define(s.Iterator, item)
			value, returned, err := exec.evalStatements(s.Body, ctx)
			ctx.exitBlock(mark)
			if err != nil {
				if errors.Is(err, errLoopBreak) {
					return NewNil(), false, nil
				}
				if errors.Is(err, errLoopNext) {
					continue
				}
				return NewNil(), false, err
			}
			if returned {
				return value, true, nil
			}
		}
		return NewNil(), false, nil

	case *BlockStmt:
		mark := ctx.enterBlock()
		value, returned, err := exec.evalStatements(s.Body, ctx)
		ctx.exitBlock(mark)
		return value, returned, err

	case *ExprStmt:
		value, err := exec.evalExpression(s.Expr, ctx)
		return value, false, err

	default:
		return NewNil(), false, exec.errorAt(stmt.Pos(), "unsupported statement")
	}
}

func (exec *Execution) iterate(v Value, pos Position) ([]Value, error) {
	switch v.Kind() {
	case KindArray:
		return v.Array().Elements, nil
	case KindMap:
		keys := v.Map().Keys()
		items := make([]Value, len(keys))
		for i, key := range keys {
			items[i] = NewString(key)
		}
		return items, nil
	case KindString:
		runes := []rune(v.Str())
		items := make([]Value, len(runes))
		for i, r := range runes {
			items[i] = NewString(string(r))
		}
		return items, nil
	default:
		return nil, exec.errorAt(pos, "cannot iterate over %s", v.Kind())
	}
}

func (exec *Execution) assign(target Expression, value Value, ctx *Context) error {
	switch t := target.(type) {
	case *Identifier:
		for c := ctx; c != nil; c = c.parent {
			if c.owner != nil && (c.hasOwn(setterPrefix+t.Name) || c.hasOwn(t.Name)) {
				// Assignments that land on an instance scope go through the
				// interception protocol, so set_x owns writes to x even from
				// inside methods.
				_, err := exec.writeProperty(c.owner, t.Name, value, t.Pos())
				return err
			}
			if c.hasOwn(t.Name) {
				c.setOwn(t.Name, value)
				return nil
			}
		}
		return exec.errorAt(t.Pos(), "undefined variable %s", t.Name)

	case *MemberExpr:
		obj, err := exec.evalExpression(t.Object, ctx)
		if err != nil {
			return err
		}
		switch obj.Kind() {
		case KindInstance:
			_, err := exec.writeProperty(obj.Instance(), t.Property, value, t.Pos())
			return err
		case KindNative:
			if err := obj.Native().SetField(t.Property, value); err != nil {
				return exec.wrapError(err, t.Pos())
			}
			return nil
		case KindSuper:
			self := exec.currentSelf()
			if self == nil {
				return exec.errorAt(t.Pos(), "super used outside of a class")
			}
			if err := self.native.SetField(t.Property, value); err != nil {
				return exec.wrapError(err, t.Pos())
			}
			return nil
		case KindMap:
			obj.Map().Set(t.Property, value)
			return nil
		default:
			return exec.errorAt(t.Pos(), "cannot assign property %s on %s", t.Property, obj.Kind())
		}

	case *IndexExpr:
		obj, err := exec.evalExpression(t.Object, ctx)
		if err != nil {
			return err
		}
		index, err := exec.evalExpression(t.Index, ctx)
		if err != nil {
			return err
		}
		switch obj.Kind() {
		case KindArray:
			arr := obj.Array()
			i := index.Int()
			if !isNumeric(index) || i < 0 || i >= int64(len(arr.Elements)) {
				return exec.errorAt(t.Pos(), "array index %s out of range", index)
			}
			arr.Elements[i] = value
			return nil
		case KindMap:
			key, err := exec.mapKey(index, t.Pos())
			if err != nil {
				return err
			}
			obj.Map().Set(key, value)
			return nil
		default:
			return exec.errorAt(t.Pos(), "cannot index %s", obj.Kind())
		}

	default:
		return exec.errorAt(target.Pos(), "invalid assignment target")
	}
}

func (exec *Execution) mapKey(v Value, pos Position) (string, error) {
	switch v.Kind() {
	case KindString, KindInt, KindFloat, KindBool:
		return v.String(), nil
	default:
		return "", exec.errorAt(pos, "%s cannot be used as a map key", v.Kind())
	}
}

func joinPath(path []string) string {
	out := ""
	for i, seg := range path {
		if i > 0 {
			out += "."
		}
		out += seg
	}
	return out
}
