package cube

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config controls engine execution bounds and script-facing policy.
type Config struct {
	// Blocklist extends the default unsafe-import prefixes. A script import
	// whose dotted path matches a prefix fails at compile time.
	Blocklist []string

	// Logger receives trace output and engine diagnostics. Defaults to a
	// discarding logger.
	Logger *logrus.Logger

	// TraceWriter additionally receives raw trace lines, for hosts that
	// redirect script output somewhere other than the log.
	TraceWriter io.Writer

	StepQuota      int
	RecursionLimit int

	// AccessorGuard enables the per-instance, per-accessor re-entrancy guard:
	// a setter that assigns back to its own property updates the plain slot
	// instead of recursing. Off by default; the unguarded recursion is the
	// documented historical behavior.
	AccessorGuard bool
}

var defaultBlocklist = []string{"sys", "Sys"}

// Engine compiles and hosts CubeScript programs. It owns the native type
// registry, host builtins and globals shared by every script it compiles.
type Engine struct {
	config    Config
	logger    *logrus.Logger
	blocklist []string

	builtins map[string]Value
	globals  map[string]Value
	natives  map[string]*NativeType
}

// NewEngine constructs an Engine with sane defaults and registers the
// standard builtins.
func NewEngine(cfg Config) *Engine {
	if cfg.StepQuota <= 0 {
		cfg.StepQuota = 1_000_000
	}
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = 200
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	engine := &Engine{
		config:    cfg,
		logger:    logger,
		blocklist: append(append([]string(nil), defaultBlocklist...), cfg.Blocklist...),
		builtins:  make(map[string]Value),
		globals:   make(map[string]Value),
		natives:   make(map[string]*NativeType),
	}
	registerBuiltins(engine)
	return engine
}

// RegisterBuiltin exposes a host callable to every script as a global.
func (e *Engine) RegisterBuiltin(name string, fn BuiltinFunc) {
	e.builtins[name] = NewBuiltin(name, fn)
}

// RegisterNativeType registers a constructible native base type under name.
// Dotted names are matched by script imports and extends clauses.
func (e *Engine) RegisterNativeType(name string, ctor func(args []Value) (NativeObject, error)) {
	e.natives[name] = &NativeType{Name: name, New: ctor}
}

// SetGlobal defines a value visible to every script compiled afterwards.
func (e *Engine) SetGlobal(name string, v Value) {
	e.globals[name] = v
}

func (e *Engine) lookupNativeType(name string) *NativeType {
	if nt, ok := e.natives[name]; ok {
		return nt
	}
	// a short name also resolves a dotted registration by its last segment
	for full, nt := range e.natives {
		if idx := strings.LastIndex(full, "."); idx >= 0 && full[idx+1:] == name {
			return nt
		}
	}
	return nil
}

// Compile parses source into a runnable Script, collecting class templates
// and enforcing the unsafe-import blocklist.
func (e *Engine) Compile(name, source string) (*Script, error) {
	p := newParser(source)
	program, errs := p.ParseProgram()
	if len(errs) > 0 {
		return nil, combineErrors(errs)
	}

	script := &Script{
		engine:  e,
		name:    name,
		source:  source,
		program: program,
		classes: make(map[string]*ClassTemplate),
		presets: make(map[string]Value),
	}

	if err := e.collectClasses(program, script.classes); err != nil {
		return nil, err
	}

	return script, nil
}

// collectClasses validates a parsed program's class and import declarations
// (duplicate templates, blocklisted import paths) and records the new
// templates. Nothing is recorded when validation fails. Both Compile and the
// interactive Eval path go through it, so blocklist enforcement holds on every
// compilation path.
func (e *Engine) collectClasses(program *Program, classes map[string]*ClassTemplate) error {
	seen := make(map[string]struct{})
	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ClassStmt:
			if _, exists := classes[s.Name]; exists {
				return &parseError{pos: s.Pos(), msg: fmt.Sprintf("class %s is already declared", s.Name)}
			}
			if _, dup := seen[s.Name]; dup {
				return &parseError{pos: s.Pos(), msg: fmt.Sprintf("class %s is already declared", s.Name)}
			}
			seen[s.Name] = struct{}{}
		case *ImportStmt:
			if e.blockedImport(s.Path) {
				return &parseError{pos: s.Pos(), msg: fmt.Sprintf("import %s is blocked", joinPath(s.Path))}
			}
		}
	}
	for _, stmt := range program.Statements {
		if s, ok := stmt.(*ClassStmt); ok {
			classes[s.Name] = templateFromStmt(s)
		}
	}
	return nil
}

func (e *Engine) blockedImport(path []string) bool {
	joined := joinPath(path)
	for _, entry := range e.blocklist {
		if joined == entry || strings.HasPrefix(joined, entry+".") {
			return true
		}
	}
	return false
}

func combineErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return fmt.Errorf("%s", strings.Join(msgs, "\n"))
}
