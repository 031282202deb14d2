package cube

import (
	"context"
	"testing"
)

func compileScript(t *testing.T, engine *Engine, source string) *Script {
	t.Helper()
	script, err := engine.Compile("test", source)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return script
}

func startScript(t *testing.T, engine *Engine, source string) *Script {
	t.Helper()
	script := compileScript(t, engine, source)
	if err := script.Start(context.Background()); err != nil {
		t.Fatalf("start error: %v", err)
	}
	return script
}

func readProp(t *testing.T, script *Script, obj Value, name string) Value {
	t.Helper()
	v, err := script.Read(context.Background(), obj, name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return v
}

func writeProp(t *testing.T, script *Script, obj Value, name string, v Value) Value {
	t.Helper()
	result, err := script.Write(context.Background(), obj, name, v)
	if err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return result
}

// namedBase is a hand-rolled native object with a fixed member list, so tests
// control exactly which names the collision filter sees.
type namedBase struct {
	names  []string
	fields map[string]Value
}

func newNamedBase(defaults map[string]Value) *namedBase {
	b := &namedBase{fields: make(map[string]Value)}
	for name, v := range defaults {
		b.names = append(b.names, name)
		b.fields[name] = v
	}
	return b
}

func (b *namedBase) GetField(name string) (Value, bool) {
	v, ok := b.fields[name]
	return v, ok
}

func (b *namedBase) SetField(name string, v Value) error {
	b.fields[name] = v
	return nil
}

func (b *namedBase) FieldNames() []string { return b.names }

// registerSprite registers a native type "Sprite" exposing a single member
// "a" defaulting to 7.
func registerSprite(engine *Engine) {
	engine.RegisterNativeType("Sprite", func(args []Value) (NativeObject, error) {
		return newNamedBase(map[string]Value{"a": NewInt(7)}), nil
	})
}
