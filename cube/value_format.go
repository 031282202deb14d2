package cube

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders a value for display (trace output, REPL results).
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.data.(bool))
	case KindInt:
		return strconv.FormatInt(v.data.(int64), 10)
	case KindFloat:
		return strconv.FormatFloat(v.data.(float64), 'g', -1, 64)
	case KindString:
		return v.data.(string)
	case KindArray:
		arr := v.data.(*Arr)
		parts := make([]string, len(arr.Elements))
		for i, el := range arr.Elements {
			parts[i] = el.quoted()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		m := v.data.(*MapObj)
		if m.Len() == 0 {
			return "[=>]"
		}
		parts := make([]string, 0, m.Len())
		for _, key := range m.order {
			parts = append(parts, fmt.Sprintf("%q => %s", key, m.fields[key].quoted()))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindFunction:
		fn := v.data.(*ScriptFunction)
		if fn.Name == "" {
			return "<function>"
		}
		return "<function " + fn.Name + ">"
	case KindBuiltin:
		return "<builtin " + v.data.(*Builtin).Name + ">"
	case KindClass:
		return "<class " + v.data.(*ClassTemplate).Name + ">"
	case KindInstance:
		return "<instance of " + v.data.(*Instance).template.Name + ">"
	case KindNative:
		return "<native " + fmt.Sprintf("%T", v.data) + ">"
	case KindNativeType:
		return "<native type " + v.data.(*NativeType).Name + ">"
	case KindSuper:
		return "<super>"
	default:
		return "<unknown>"
	}
}

// quoted is like String but wraps strings in quotes, for aggregate rendering.
func (v Value) quoted() string {
	if v.kind == KindString {
		return strconv.Quote(v.data.(string))
	}
	return v.String()
}
