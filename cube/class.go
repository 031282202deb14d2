package cube

// ClassTemplate is the immutable, parsed description of a script-declared
// class. It is created when the script is compiled, shared by every instance
// created from it, and never mutated afterwards.
type ClassTemplate struct {
	Name string

	// NativeBase names a host-registered native type backing instances of
	// this class; empty means the generic field-bag base.
	NativeBase string

	// Interfaces carries the declared interface names. They are informational
	// only; no method-contract checking happens at runtime.
	Interfaces []string

	// Declarations are the unevaluated field and method declarations,
	// executed in order against each new instance's context.
	Declarations []Statement
}

// Instance is a live object created from a ClassTemplate. It owns its private
// Context and its native base object exclusively; neither is ever shared with
// another instance or with the enclosing script scope.
type Instance struct {
	template *ClassTemplate
	ctx      *Context
	native   NativeObject
}

func (i *Instance) Template() *ClassTemplate { return i.template }
func (i *Instance) Context() *Context        { return i.ctx }
func (i *Instance) NativeBase() NativeObject { return i.native }

type superProxy struct{}

// superValue is the process-wide delegation sentinel bound as "super" in
// every instance context. It carries no state; the evaluator recognizes it by
// kind and resolves super-qualified access against the current instance's
// native base.
var superValue = Value{kind: KindSuper, data: &superProxy{}}

// SuperValue returns the shared super sentinel. The same value, by reference,
// is bound into every instance of every script.
func SuperValue() Value { return superValue }

const (
	identSuper = "super"
	identThis  = "this"
	identCtor  = "new"

	getterPrefix = "get_"
	setterPrefix = "set_"
)
