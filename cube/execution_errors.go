package cube

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type StackFrame struct {
	Function string
	Pos      Position
}

// RuntimeError carries the script-level failure message, a rendered code
// frame, and the call stack at the point of failure.
type RuntimeError struct {
	Message   string
	CodeFrame string
	Frames    []StackFrame
}

// InitializationError reports that a class instance could not be brought into
// existence: its declared native base type was unresolved, or the base
// constructor rejected the arguments. Failures after the instance exists (in
// declarations or the script constructor) are ordinary runtime errors, never
// this type.
type InitializationError struct {
	Class string
	Base  string
	Err   error
}

func (e *InitializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot initialize %s: native base %s: %v", e.Class, e.Base, e.Err)
	}
	return fmt.Sprintf("cannot initialize %s: unknown native base type %s", e.Class, e.Base)
}

func (e *InitializationError) Unwrap() error { return e.Err }

const (
	runtimeErrorFrameHead = 8
	runtimeErrorFrameTail = 8
)

var (
	errLoopBreak         = errors.New("loop break")
	errLoopNext          = errors.New("loop continue")
	errStepQuotaExceeded = errors.New("step quota exceeded")
)

func (re *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(re.Message)
	if re.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(re.CodeFrame)
	}
	renderFrame := func(frame StackFrame) {
		if frame.Pos.Line > 0 && frame.Pos.Column > 0 {
			fmt.Fprintf(&b, "\n  at %s (%d:%d)", frame.Function, frame.Pos.Line, frame.Pos.Column)
		} else if frame.Pos.Line > 0 {
			fmt.Fprintf(&b, "\n  at %s (line %d)", frame.Function, frame.Pos.Line)
		} else {
			fmt.Fprintf(&b, "\n  at %s", frame.Function)
		}
	}

	if len(re.Frames) <= runtimeErrorFrameHead+runtimeErrorFrameTail {
		for _, frame := range re.Frames {
			renderFrame(frame)
		}
		return b.String()
	}

	for _, frame := range re.Frames[:runtimeErrorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(re.Frames) - (runtimeErrorFrameHead + runtimeErrorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range re.Frames[len(re.Frames)-runtimeErrorFrameTail:] {
		renderFrame(frame)
	}

	return b.String()
}

// Unwrap returns nil; RuntimeError is terminal and keeps only the original
// message, not the original error value.
func (re *RuntimeError) Unwrap() error { return nil }

func (exec *Execution) step() error {
	exec.steps++
	if exec.quota > 0 && exec.steps > exec.quota {
		return fmt.Errorf("%w (%d)", errStepQuotaExceeded, exec.quota)
	}
	if exec.ctx != nil {
		select {
		case <-exec.ctx.Done():
			return exec.ctx.Err()
		default:
		}
	}
	return nil
}

func (exec *Execution) errorAt(pos Position, format string, args ...any) error {
	return exec.newRuntimeError(fmt.Sprintf(format, args...), pos)
}

func (exec *Execution) newRuntimeError(message string, pos Position) error {
	frames := make([]StackFrame, 0, len(exec.callStack)+1)

	if len(exec.callStack) > 0 {
		current := exec.callStack[len(exec.callStack)-1]
		frames = append(frames, StackFrame{Function: current.Function, Pos: pos})
		for i := len(exec.callStack) - 1; i >= 0; i-- {
			frames = append(frames, StackFrame(exec.callStack[i]))
		}
	} else {
		frames = append(frames, StackFrame{Function: "<script>", Pos: pos})
	}

	frame := ""
	if exec.script != nil {
		frame = codeFrame(exec.script.source, pos)
	}
	return &RuntimeError{Message: message, CodeFrame: frame, Frames: frames}
}

// codeFrame renders the failing source line with a caret under the column,
// preceded by one line of context when available.
func codeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}
	first := pos.Line - 1
	if first < 1 {
		first = pos.Line
	}
	width := len(strconv.Itoa(pos.Line))
	var b strings.Builder
	for n := first; n <= pos.Line; n++ {
		fmt.Fprintf(&b, "%*d | %s\n", width, n, lines[n-1])
	}
	col := pos.Column
	if col < 1 {
		col = 1
	}
	if max := len([]rune(lines[pos.Line-1])) + 1; col > max {
		col = max
	}
	fmt.Fprintf(&b, "%s | %s^", strings.Repeat(" ", width), strings.Repeat(" ", col-1))
	return b.String()
}

// wrapError attaches position context to plain errors; control sentinels and
// errors that already carry frames pass through untouched.
func (exec *Execution) wrapError(err error, pos Position) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, errLoopBreak) || errors.Is(err, errLoopNext) {
		return err
	}
	if _, ok := err.(*RuntimeError); ok {
		return err
	}
	var initErr *InitializationError
	if errors.As(err, &initErr) {
		return err
	}
	return exec.newRuntimeError(err.Error(), pos)
}
