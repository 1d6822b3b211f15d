// Package vm defines the stack-VM command model and the reader that turns
// VM source text into commands.
package vm

import "fmt"

// Command is one parsed VM instruction. The set of implementations is
// closed; the generator switches on the concrete type.
type Command interface {
	fmt.Stringer
	command()
}

// ArithOp names an arithmetic or logical command.
type ArithOp string

const (
	Add ArithOp = "add"
	Sub ArithOp = "sub"
	Neg ArithOp = "neg"
	Eq  ArithOp = "eq"
	Gt  ArithOp = "gt"
	Lt  ArithOp = "lt"
	And ArithOp = "and"
	Or  ArithOp = "or"
	Not ArithOp = "not"
)

var arithOps = map[string]ArithOp{
	"add": Add,
	"sub": Sub,
	"neg": Neg,
	"eq":  Eq,
	"gt":  Gt,
	"lt":  Lt,
	"and": And,
	"or":  Or,
	"not": Not,
}

// Unary reports whether the op reads only the top of the stack.
func (op ArithOp) Unary() bool {
	return op == Neg || op == Not
}

// Comparison reports whether the op produces a boolean.
func (op ArithOp) Comparison() bool {
	return op == Eq || op == Gt || op == Lt
}

// Arithmetic pops one or two operands and pushes the result.
type Arithmetic struct {
	Op ArithOp
}

func (Arithmetic) command() {}

func (c Arithmetic) String() string {
	return string(c.Op)
}

// Push copies segment[Index] onto the stack.
type Push struct {
	Segment Segment
	Index   int
}

func (Push) command() {}

func (c Push) String() string {
	return fmt.Sprintf("push %s %d", c.Segment, c.Index)
}

// Pop moves the top of the stack into segment[Index].
type Pop struct {
	Segment Segment
	Index   int
}

func (Pop) command() {}

func (c Pop) String() string {
	return fmt.Sprintf("pop %s %d", c.Segment, c.Index)
}

// Label declares Name inside Scope, the enclosing function.
type Label struct {
	Scope string
	Name  string
}

func (Label) command() {}

func (c Label) String() string {
	return "label " + c.Name
}

// Goto jumps unconditionally to a label of the same scope.
type Goto struct {
	Scope string
	Name  string
}

func (Goto) command() {}

func (c Goto) String() string {
	return "goto " + c.Name
}

// If pops the top of the stack and jumps when it is non-zero.
type If struct {
	Scope string
	Name  string
}

func (If) command() {}

func (c If) String() string {
	return "if-goto " + c.Name
}

// Function starts a function body with NumLocals zeroed locals.
type Function struct {
	Name      string
	NumLocals int
}

func (Function) command() {}

func (c Function) String() string {
	return fmt.Sprintf("function %s %d", c.Name, c.NumLocals)
}

// Call invokes Name after NumArgs arguments have been pushed.
type Call struct {
	Name    string
	NumArgs int
}

func (Call) command() {}

func (c Call) String() string {
	return fmt.Sprintf("call %s %d", c.Name, c.NumArgs)
}

// Return leaves the current function.
type Return struct{}

func (Return) command() {}

func (Return) String() string {
	return "return"
}

// ModuleBoundary marks the start of a new source module. It carries the
// namespace used for static variables and emits no code.
type ModuleBoundary struct {
	Module string
}

func (ModuleBoundary) command() {}

func (c ModuleBoundary) String() string {
	return "module " + c.Module
}
