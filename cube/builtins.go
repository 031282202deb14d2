package cube

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

func registerBuiltins(e *Engine) {
	e.RegisterBuiltin("trace", builtinTrace)
	e.RegisterBuiltin("typeof", builtinTypeof)
	e.RegisterBuiltin("str", builtinStr)
	e.RegisterBuiltin("len", builtinLen)
	e.RegisterBuiltin("push", builtinPush)
	e.RegisterBuiltin("keys", builtinKeys)
}

// builtinTrace writes its arguments through the engine logger and, when
// configured, the raw trace writer. Hosts redirect script output by swapping
// either one.
func builtinTrace(exec *Execution, args []Value) (Value, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	msg := strings.Join(parts, " ")

	if w := exec.engine.config.TraceWriter; w != nil {
		fmt.Fprintf(w, "%s: %s\n", exec.script.name, msg)
	}
	exec.engine.logger.WithFields(logrus.Fields{"script": exec.script.name}).Info(msg)
	return NewNil(), nil
}

func builtinTypeof(exec *Execution, args []Value) (Value, error) {
	if len(args) != 1 {
		return NewNil(), fmt.Errorf("typeof expects 1 argument, got %d", len(args))
	}
	return NewString(args[0].Kind().String()), nil
}

func builtinStr(exec *Execution, args []Value) (Value, error) {
	if len(args) != 1 {
		return NewNil(), fmt.Errorf("str expects 1 argument, got %d", len(args))
	}
	return NewString(args[0].String()), nil
}

func builtinLen(exec *Execution, args []Value) (Value, error) {
	if len(args) != 1 {
		return NewNil(), fmt.Errorf("len expects 1 argument, got %d", len(args))
	}
	switch v := args[0]; v.Kind() {
	case KindString:
		return NewInt(int64(len([]rune(v.Str())))), nil
	case KindArray:
		return NewInt(int64(len(v.Array().Elements))), nil
	case KindMap:
		return NewInt(int64(v.Map().Len())), nil
	default:
		return NewNil(), fmt.Errorf("len is not defined for %s", v.Kind())
	}
}

func builtinPush(exec *Execution, args []Value) (Value, error) {
	if len(args) != 2 {
		return NewNil(), fmt.Errorf("push expects 2 arguments, got %d", len(args))
	}
	arr := args[0].Array()
	if arr == nil {
		return NewNil(), fmt.Errorf("push expects an array, got %s", args[0].Kind())
	}
	arr.Elements = append(arr.Elements, args[1])
	return NewInt(int64(len(arr.Elements))), nil
}

func builtinKeys(exec *Execution, args []Value) (Value, error) {
	if len(args) != 1 {
		return NewNil(), fmt.Errorf("keys expects 1 argument, got %d", len(args))
	}
	m := args[0].Map()
	if m == nil {
		return NewNil(), fmt.Errorf("keys expects a map, got %s", args[0].Kind())
	}
	keys := m.Keys()
	elements := make([]Value, len(keys))
	for i, key := range keys {
		elements[i] = NewString(key)
	}
	return NewArray(elements), nil
}
