package cube

type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindMap
	KindFunction
	KindBuiltin
	KindClass
	KindInstance
	KindNative
	KindNativeType
	KindSuper
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindFunction:
		return "function"
	case KindBuiltin:
		return "builtin"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	case KindNative:
		return "native"
	case KindNativeType:
		return "native type"
	case KindSuper:
		return "super"
	default:
		return "unknown"
	}
}

type Value struct {
	kind ValueKind
	data any
}

// BuiltinFunc is the signature of host-provided callables exposed to scripts.
type BuiltinFunc func(exec *Execution, args []Value) (Value, error)

type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

// ScriptFunction is a script-declared callable closing over its defining
// context. owner is set for functions declared by class-body declarations and
// carries the receiving instance into calls.
type ScriptFunction struct {
	Name    string
	Params  []string
	Body    []Statement
	Pos     Position
	closure *Context
	owner   *Instance
}

// Arr is the boxed array payload so element assignment through a Value is
// visible to every holder of the same array.
type Arr struct {
	Elements []Value
}

// MapObj is the boxed map payload; insertion order is preserved for iteration.
type MapObj struct {
	order  []string
	fields map[string]Value
}

func newMapObj() *MapObj {
	return &MapObj{fields: make(map[string]Value)}
}

func (m *MapObj) Get(key string) (Value, bool) {
	v, ok := m.fields[key]
	return v, ok
}

func (m *MapObj) Set(key string, v Value) {
	if _, ok := m.fields[key]; !ok {
		m.order = append(m.order, key)
	}
	m.fields[key] = v
}

func (m *MapObj) Keys() []string {
	keys := make([]string, len(m.order))
	copy(keys, m.order)
	return keys
}

func (m *MapObj) Len() int { return len(m.fields) }
