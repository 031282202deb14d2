package cube

import (
	"fmt"
	"reflect"
)

// NativeObject is a host-provided object backing a class instance. It holds
// every property not intercepted by the script layer.
type NativeObject interface {
	// GetField reads a field; ok is false when the object has no such field.
	GetField(name string) (Value, bool)
	// SetField stores a field. Implementations must accept unknown names so
	// property writes stay total.
	SetField(name string, v Value) error
	// FieldNames lists the members the object exposes natively. Captured
	// outer bindings colliding with these names are dropped at instantiation.
	FieldNames() []string
}

// NativeType describes a constructible native base type registered with the
// engine.
type NativeType struct {
	Name string
	New  func(args []Value) (NativeObject, error)
}

// baseObject is the generic empty base used by classes with no extends
// clause: a plain field bag with no native members of its own.
type baseObject struct {
	fields *MapObj
}

func newBaseObject() *baseObject {
	return &baseObject{fields: newMapObj()}
}

func (b *baseObject) GetField(name string) (Value, bool) {
	return b.fields.Get(name)
}

func (b *baseObject) SetField(name string, v Value) error {
	b.fields.Set(name, v)
	return nil
}

func (b *baseObject) FieldNames() []string {
	// A fresh base exposes no members, so nothing collides with captured
	// bindings. Fields stored later stay invisible to the collision filter,
	// which only runs at instantiation time.
	return nil
}

// nativeGet reads a native field, defaulting to null for unknown names.
func nativeGet(obj NativeObject, name string) Value {
	if v, ok := obj.GetField(name); ok {
		return v
	}
	return NewNil()
}

// reflectObject adapts an arbitrary Go struct pointer to NativeObject.
// Exported fields are read and written through reflection; exported methods
// surface as builtin callables. Unknown names land in an overflow bag so
// property writes never fail.
type reflectObject struct {
	target   reflect.Value // pointer to struct
	overflow *MapObj
}

// WrapNative exposes a Go struct pointer as a native base object. Non-struct
// values still work but expose only the overflow bag.
func WrapNative(target any) NativeObject {
	return &reflectObject{target: reflect.ValueOf(target), overflow: newMapObj()}
}

func (r *reflectObject) structValue() (reflect.Value, bool) {
	v := r.target
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	return v, true
}

func (r *reflectObject) GetField(name string) (Value, bool) {
	if sv, ok := r.structValue(); ok {
		field := sv.FieldByName(name)
		if field.IsValid() && field.CanInterface() {
			return valueFromGo(field.Interface()), true
		}
	}
	if method := r.target.MethodByName(name); method.IsValid() {
		return wrapNativeMethod(name, method), true
	}
	return r.overflow.Get(name)
}

func (r *reflectObject) SetField(name string, v Value) error {
	if sv, ok := r.structValue(); ok {
		field := sv.FieldByName(name)
		if field.IsValid() && field.CanSet() {
			return assignGoValue(field, v)
		}
	}
	r.overflow.Set(name, v)
	return nil
}

func (r *reflectObject) FieldNames() []string {
	var names []string
	if sv, ok := r.structValue(); ok {
		t := sv.Type()
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).IsExported() {
				names = append(names, t.Field(i).Name)
			}
		}
	}
	t := r.target.Type()
	for i := 0; i < t.NumMethod(); i++ {
		names = append(names, t.Method(i).Name)
	}
	return names
}

func wrapNativeMethod(name string, method reflect.Value) Value {
	return NewBuiltin(name, func(exec *Execution, args []Value) (Value, error) {
		mt := method.Type()
		if mt.IsVariadic() {
			if len(args) < mt.NumIn()-1 {
				return NewNil(), fmt.Errorf("%s expects at least %d arguments, got %d", name, mt.NumIn()-1, len(args))
			}
		} else if len(args) != mt.NumIn() {
			return NewNil(), fmt.Errorf("%s expects %d arguments, got %d", name, mt.NumIn(), len(args))
		}
		in := make([]reflect.Value, len(args))
		for i, arg := range args {
			var paramType reflect.Type
			if mt.IsVariadic() && i >= mt.NumIn()-1 {
				paramType = mt.In(mt.NumIn() - 1).Elem()
			} else {
				paramType = mt.In(i)
			}
			gv := reflect.New(paramType).Elem()
			if err := assignGoValue(gv, arg); err != nil {
				return NewNil(), fmt.Errorf("%s argument %d: %w", name, i+1, err)
			}
			in[i] = gv
		}
		out := method.Call(in)
		// Trailing error return propagates; a single remaining value is the
		// result.
		if n := len(out); n > 0 && out[n-1].Type().Implements(errType) {
			errv, _ := out[n-1].Interface().(error)
			out = out[:n-1]
			if errv != nil {
				return NewNil(), errv
			}
		}
		if len(out) == 0 {
			return NewNil(), nil
		}
		return valueFromGo(out[0].Interface()), nil
	})
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// valueFromGo converts a Go value to a script Value.
func valueFromGo(v any) Value {
	switch t := v.(type) {
	case nil:
		return NewNil()
	case Value:
		return t
	case bool:
		return NewBool(t)
	case int:
		return NewInt(int64(t))
	case int32:
		return NewInt(int64(t))
	case int64:
		return NewInt(t)
	case float32:
		return NewFloat(float64(t))
	case float64:
		return NewFloat(t)
	case string:
		return NewString(t)
	case []Value:
		return NewArray(t)
	case map[string]Value:
		return NewMap(t)
	case NativeObject:
		return NewNative(t)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		elements := make([]Value, rv.Len())
		for i := range elements {
			elements[i] = valueFromGo(rv.Index(i).Interface())
		}
		return NewArray(elements)
	case reflect.Map:
		m := newMapObj()
		for _, key := range rv.MapKeys() {
			m.Set(fmt.Sprint(key.Interface()), valueFromGo(rv.MapIndex(key).Interface()))
		}
		return newMapValue(m)
	case reflect.Pointer, reflect.Struct:
		return NewNative(WrapNative(v))
	default:
		return NewString(fmt.Sprint(v))
	}
}

// assignGoValue stores a script Value into a Go destination, converting
// numeric kinds as needed.
func assignGoValue(dst reflect.Value, v Value) error {
	if dst.Type() == reflect.TypeOf(Value{}) {
		dst.Set(reflect.ValueOf(v))
		return nil
	}
	switch dst.Kind() {
	case reflect.Bool:
		dst.SetBool(v.Truthy())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !isNumeric(v) {
			return fmt.Errorf("cannot assign %s to %s", v.Kind(), dst.Type())
		}
		dst.SetInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if !isNumeric(v) {
			return fmt.Errorf("cannot assign %s to %s", v.Kind(), dst.Type())
		}
		dst.SetUint(uint64(v.Int()))
	case reflect.Float32, reflect.Float64:
		if !isNumeric(v) {
			return fmt.Errorf("cannot assign %s to %s", v.Kind(), dst.Type())
		}
		dst.SetFloat(v.Float())
	case reflect.String:
		if v.Kind() != KindString {
			return fmt.Errorf("cannot assign %s to %s", v.Kind(), dst.Type())
		}
		dst.SetString(v.Str())
	case reflect.Interface:
		if dst.NumMethod() == 0 {
			if gv := goFromValue(v); gv != nil {
				dst.Set(reflect.ValueOf(gv))
			} else {
				dst.Set(reflect.Zero(dst.Type()))
			}
			return nil
		}
		return fmt.Errorf("cannot assign %s to %s", v.Kind(), dst.Type())
	default:
		return fmt.Errorf("cannot assign %s to %s", v.Kind(), dst.Type())
	}
	return nil
}

// goFromValue converts a script Value to a plain Go value for any-typed
// destinations.
func goFromValue(v Value) any {
	switch v.Kind() {
	case KindNil:
		return nil
	case KindBool:
		return v.Bool()
	case KindInt:
		return v.Int()
	case KindFloat:
		return v.Float()
	case KindString:
		return v.Str()
	default:
		return v
	}
}
