package cube

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) Bool() bool {
	if v.kind == KindBool {
		return v.data.(bool)
	}
	return false
}

func (v Value) Int() int64 {
	switch v.kind {
	case KindInt:
		return v.data.(int64)
	case KindFloat:
		return int64(v.data.(float64))
	default:
		return 0
	}
}

func (v Value) Float() float64 {
	switch v.kind {
	case KindFloat:
		return v.data.(float64)
	case KindInt:
		return float64(v.data.(int64))
	default:
		return 0
	}
}

func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.data.(string)
}

func (v Value) Array() *Arr {
	if v.kind != KindArray {
		return nil
	}
	return v.data.(*Arr)
}

func (v Value) Map() *MapObj {
	if v.kind != KindMap {
		return nil
	}
	return v.data.(*MapObj)
}

func (v Value) Function() *ScriptFunction {
	if v.kind != KindFunction {
		return nil
	}
	return v.data.(*ScriptFunction)
}

func (v Value) Builtin() *Builtin {
	if v.kind != KindBuiltin {
		return nil
	}
	return v.data.(*Builtin)
}

func (v Value) Class() *ClassTemplate {
	if v.kind != KindClass {
		return nil
	}
	return v.data.(*ClassTemplate)
}

func (v Value) Instance() *Instance {
	if v.kind != KindInstance {
		return nil
	}
	return v.data.(*Instance)
}

func (v Value) Native() NativeObject {
	if v.kind != KindNative {
		return nil
	}
	return v.data.(NativeObject)
}

func (v Value) nativeType() *NativeType {
	if v.kind != KindNativeType {
		return nil
	}
	return v.data.(*NativeType)
}

// Callable reports whether the value can be invoked with arguments.
func (v Value) Callable() bool {
	return v.kind == KindFunction || v.kind == KindBuiltin
}

// Truthy follows script truthiness: null and false are falsy, everything else
// is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.data.(bool)
	default:
		return true
	}
}

func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		// ints and floats compare across kinds
		if isNumeric(v) && isNumeric(other) {
			return v.Float() == other.Float()
		}
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.data.(bool) == other.data.(bool)
	case KindInt:
		return v.data.(int64) == other.data.(int64)
	case KindFloat:
		return v.data.(float64) == other.data.(float64)
	case KindString:
		return v.data.(string) == other.data.(string)
	default:
		// reference identity for aggregates, instances and natives
		return v.data == other.data
	}
}

func isNumeric(v Value) bool {
	return v.kind == KindInt || v.kind == KindFloat
}
