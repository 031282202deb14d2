package cube

import (
	"context"
	"fmt"
	"sort"
)

// Script is a compiled program plus its top-level scope. Start runs the
// top-level statements once; afterwards the host reads and writes script
// variables, calls script functions, and instantiates script classes through
// it. A Script is single-threaded; callers needing concurrent access must
// serialize externally.
type Script struct {
	engine  *Engine
	name    string
	source  string
	program *Program
	classes map[string]*ClassTemplate

	// presets are variables set by the host before Start; they are defined
	// into the root scope ahead of the program's own statements.
	presets map[string]Value

	root *Context
}

func (s *Script) Name() string { return s.name }

// Classes lists the script's declared class templates.
func (s *Script) Classes() map[string]*ClassTemplate { return s.classes }

// Start executes the script's top-level statements. Calling Start on an
// already-started script is a no-op; after Stop, Start builds a fresh root
// scope and runs the program again.
func (s *Script) Start(ctx context.Context) error {
	if s.root != nil {
		return nil
	}

	root := newContext(nil)
	for _, name := range sortedKeys(s.engine.builtins) {
		root.Define(name, s.engine.builtins[name])
	}
	for _, name := range sortedKeys(s.engine.globals) {
		root.Define(name, s.engine.globals[name])
	}
	for _, name := range sortedKeys(s.presets) {
		root.Define(name, s.presets[name])
	}

	s.root = root
	exec := s.newExecution(ctx)
	if _, _, err := exec.evalStatements(s.program.Statements, root); err != nil {
		s.root = nil
		return err
	}
	return nil
}

// Stop tears down the script's top-level scope. It is idempotent; instances
// already handed to the host stay alive, since each owns its private context.
func (s *Script) Stop() {
	s.root = nil
}

// Started reports whether the script currently has a live root scope.
func (s *Script) Started() bool { return s.root != nil }

// Get reads a top-level variable.
func (s *Script) Get(name string) (Value, bool) {
	if s.root == nil {
		return Value{}, false
	}
	return s.root.Get(name)
}

// Set defines or updates a top-level variable. Before Start it is staged and
// applied when the root scope is built.
func (s *Script) Set(name string, v Value) {
	if s.root == nil {
		s.presets[name] = v
		return
	}
	if s.root.hasOwn(name) {
		s.root.setOwn(name, v)
		return
	}
	s.root.Define(name, v)
}

// Call invokes a top-level script function by name.
func (s *Script) Call(ctx context.Context, name string, args []Value) (Value, error) {
	if s.root == nil {
		return NewNil(), fmt.Errorf("script %s is not started", s.name)
	}
	fn, ok := s.root.Get(name)
	if !ok {
		return NewNil(), fmt.Errorf("script %s has no function %s", s.name, name)
	}
	exec := s.newExecution(ctx)
	return exec.callValue(fn, args, Position{})
}

// Instantiate creates an instance of a script-declared class with the root
// scope as the enclosing environment.
func (s *Script) Instantiate(ctx context.Context, name string, args []Value) (Value, error) {
	if s.root == nil {
		return NewNil(), fmt.Errorf("script %s is not started", s.name)
	}
	template, ok := s.classes[name]
	if !ok {
		return NewNil(), fmt.Errorf("script %s has no class %s", s.name, name)
	}
	exec := s.newExecution(ctx)
	inst, err := exec.instantiate(template, s.root, args, Position{})
	if err != nil {
		if inst != nil {
			return NewInstance(inst), err
		}
		return NewNil(), err
	}
	return NewInstance(inst), nil
}

// Read resolves a property on an instance through the interception protocol.
func (s *Script) Read(ctx context.Context, obj Value, name string) (Value, error) {
	inst := obj.Instance()
	if inst == nil {
		return NewNil(), fmt.Errorf("value is not a class instance")
	}
	exec := s.newExecution(ctx)
	return exec.readProperty(inst, name, Position{})
}

// Write stores a property on an instance through the interception protocol
// and returns the resulting value.
func (s *Script) Write(ctx context.Context, obj Value, name string, v Value) (Value, error) {
	inst := obj.Instance()
	if inst == nil {
		return NewNil(), fmt.Errorf("value is not a class instance")
	}
	exec := s.newExecution(ctx)
	return exec.writeProperty(inst, name, v, Position{})
}

// Eval parses source and runs it in the script's live root scope. Hosts use
// it for interactive sessions; state accumulates across calls. Source passes
// the same blocklist and duplicate-class checks as Compile.
func (s *Script) Eval(ctx context.Context, source string) (Value, error) {
	if s.root == nil {
		return NewNil(), fmt.Errorf("script %s is not started", s.name)
	}
	p := newParser(source)
	program, errs := p.ParseProgram()
	if len(errs) > 0 {
		return NewNil(), combineErrors(errs)
	}
	if err := s.engine.collectClasses(program, s.classes); err != nil {
		return NewNil(), err
	}
	exec := s.newExecution(ctx)
	value, _, err := exec.evalStatements(program.Statements, s.root)
	return value, err
}

func (s *Script) newExecution(ctx context.Context) *Execution {
	return &Execution{
		engine:       s.engine,
		script:       s,
		ctx:          ctx,
		root:         s.root,
		quota:        s.engine.config.StepQuota,
		recursionCap: s.engine.config.RecursionLimit,
		guards:       make(map[guardKey]bool),
	}
}

func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
