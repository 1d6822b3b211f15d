// Package codegen translates VM commands into Hack assembly fragments.
//
// Every fragment leaves SP pointing at the first free stack cell, so
// fragments can be concatenated in any order the VM program dictates.
package codegen

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/sarchlab/hackvm/label"
	"github.com/sarchlab/hackvm/vm"
)

// Builder can create generators.
type Builder struct {
	labels   *label.Service
	comments bool
}

// WithLabelService sets the label service. Generators that share a service
// share one label counter.
func (b Builder) WithLabelService(labels *label.Service) Builder {
	b.labels = labels
	return b
}

// WithComments makes the generator precede each fragment with the VM
// command it implements.
func (b Builder) WithComments(comments bool) Builder {
	b.comments = comments
	return b
}

// Build creates a generator.
func (b Builder) Build() *Generator {
	labels := b.labels
	if labels == nil {
		labels = label.New()
	}

	return &Generator{
		labels:   labels,
		comments: b.comments,
	}
}

// Generator maps commands to assembly. Its only state is the current module
// name, which a ModuleBoundary command switches.
type Generator struct {
	labels   *label.Service
	comments bool
	module   string
}

// Module returns the namespace used for static variables.
func (g *Generator) Module() string {
	return g.module
}

// Generate returns the assembly fragment for one command.
func (g *Generator) Generate(cmd vm.Command) (string, error) {
	f := &fragment{}

	if _, ok := cmd.(vm.ModuleBoundary); !ok && g.comments {
		f.comment(cmd.String())
	}

	var err error
	switch c := cmd.(type) {
	case vm.ModuleBoundary:
		g.module = c.Module
		if g.comments {
			f.comment("module " + c.Module)
		}
	case vm.Arithmetic:
		err = g.arithmetic(f, c.Op)
	case vm.Push:
		err = g.push(f, c.Segment, c.Index)
	case vm.Pop:
		err = g.pop(f, c.Segment, c.Index)
	case vm.Label:
		f.label(label.Scoped(c.Scope, c.Name))
	case vm.Goto:
		g.jump(f, label.Scoped(c.Scope, c.Name))
	case vm.If:
		g.jumpIf(f, label.Scoped(c.Scope, c.Name))
	case vm.Function:
		g.function(f, c.Name, c.NumLocals)
	case vm.Call:
		g.call(f, c.Name, c.NumArgs)
	case vm.Return:
		g.ret(f)
	default:
		err = errors.Errorf("unsupported command %T", cmd)
	}

	if err != nil {
		return "", err
	}

	return f.String(), nil
}

// Bootstrap returns the program prologue: SP is set to stackBase and the
// entry function is called with no arguments. Should the entry function
// return, execution parks on the halt loop.
func (g *Generator) Bootstrap(stackBase int, entry string) string {
	f := &fragment{}

	if g.comments {
		f.comment("bootstrap")
	}

	f.emit(
		"@"+strconv.Itoa(stackBase),
		"D=A",
		"@SP",
		"M=D",
	)

	if g.comments {
		f.comment(vm.Call{Name: entry}.String())
	}
	g.call(f, entry, 0)

	f.label(label.Halt)
	g.jump(f, label.Halt)

	return f.String()
}

// EndLoop returns a terminal self-loop that keeps a bootstrap-less program
// from running past its last instruction.
func (g *Generator) EndLoop() string {
	f := &fragment{}
	f.label(label.End)
	g.jump(f, label.End)
	return f.String()
}
