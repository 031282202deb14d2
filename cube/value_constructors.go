package cube

func NewNil() Value            { return Value{kind: KindNil} }
func NewBool(b bool) Value     { return Value{kind: KindBool, data: b} }
func NewInt(i int64) Value     { return Value{kind: KindInt, data: i} }
func NewFloat(f float64) Value { return Value{kind: KindFloat, data: f} }
func NewString(s string) Value { return Value{kind: KindString, data: s} }

func NewArray(elements []Value) Value {
	return Value{kind: KindArray, data: &Arr{Elements: elements}}
}

func NewMap(entries map[string]Value) Value {
	m := newMapObj()
	for k, v := range entries {
		m.Set(k, v)
	}
	return Value{kind: KindMap, data: m}
}

func newMapValue(m *MapObj) Value { return Value{kind: KindMap, data: m} }

func NewFunction(fn *ScriptFunction) Value { return Value{kind: KindFunction, data: fn} }

func NewBuiltin(name string, fn BuiltinFunc) Value {
	return Value{kind: KindBuiltin, data: &Builtin{Name: name, Fn: fn}}
}

func NewClass(template *ClassTemplate) Value { return Value{kind: KindClass, data: template} }
func NewInstance(inst *Instance) Value       { return Value{kind: KindInstance, data: inst} }

func NewNative(obj NativeObject) Value { return Value{kind: KindNative, data: obj} }

func newNativeTypeValue(nt *NativeType) Value { return Value{kind: KindNativeType, data: nt} }
