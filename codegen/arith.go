package codegen

import (
	"github.com/pkg/errors"
	"github.com/sarchlab/hackvm/vm"
)

// binaryComps combine x (in M, one below the top) with y (in D).
var binaryComps = map[vm.ArithOp]string{
	vm.Add: "M=D+M",
	vm.Sub: "M=M-D",
	vm.And: "M=D&M",
	vm.Or:  "M=D|M",
}

var unaryComps = map[vm.ArithOp]string{
	vm.Neg: "M=-M",
	vm.Not: "M=!M",
}

var comparisonJumps = map[vm.ArithOp]string{
	vm.Eq: "JEQ",
	vm.Gt: "JGT",
	vm.Lt: "JLT",
}

func (g *Generator) arithmetic(f *fragment, op vm.ArithOp) error {
	if comp, ok := unaryComps[op]; ok {
		f.emit(
			"@SP",
			"A=M-1",
			comp,
		)
		return nil
	}

	if comp, ok := binaryComps[op]; ok {
		f.emit(
			"@SP",
			"AM=M-1",
			"D=M",
			"A=A-1",
			comp,
		)
		return nil
	}

	if jump, ok := comparisonJumps[op]; ok {
		g.compare(f, op, jump)
		return nil
	}

	return errors.Errorf("unknown arithmetic command %q", op)
}

// compare leaves -1 in x's cell when x ? y holds, 0 otherwise. Every site
// draws fresh labels from the label service.
func (g *Generator) compare(f *fragment, op vm.ArithOp, jump string) {
	if op == vm.Eq {
		trueLabel, endLabel := g.labels.Branch(string(op))
		f.emit(
			"@SP",
			"AM=M-1",
			"D=M",
			"A=A-1",
			"D=M-D",
		)
		g.decide(f, jump, trueLabel, endLabel)
		return
	}

	g.order(f, op, jump)
}

// order compares x and y by sign first, so x-y is only computed when both
// have the same sign and cannot overflow. D ends up with the sign of x-y.
// y is kept in R13.
func (g *Generator) order(f *fragment, op vm.ArithOp, jump string) {
	l := g.labels.Site(string(op), "XNEG", "SAME", "DECIDE", "TRUE", "END")
	xNeg, same, decide, trueLabel, endLabel := l[0], l[1], l[2], l[3], l[4]

	f.emit(
		"@SP",
		"AM=M-1",
		"D=M",
		"@R13",
		"M=D",
		"@SP",
		"A=M-1",
		"D=M",
		"@"+xNeg,
		"D;JLT",
		"@R13",
		"D=M",
		"@"+same,
		"D;JGE",
		"D=1",
		"@"+decide,
		"0;JMP",
	)
	f.label(xNeg)
	f.emit(
		"@R13",
		"D=M",
		"@"+same,
		"D;JLT",
		"D=-1",
		"@"+decide,
		"0;JMP",
	)
	f.label(same)
	f.emit(
		"@R13",
		"D=M",
		"@SP",
		"A=M-1",
		"D=M-D",
	)
	f.label(decide)
	g.decide(f, jump, trueLabel, endLabel)
}

// decide writes -1 into x's cell when D satisfies jump and 0 otherwise.
func (g *Generator) decide(f *fragment, jump, trueLabel, endLabel string) {
	f.emit(
		"@"+trueLabel,
		"D;"+jump,
		"@SP",
		"A=M-1",
		"M=0",
		"@"+endLabel,
		"0;JMP",
	)
	f.label(trueLabel)
	f.emit(
		"@SP",
		"A=M-1",
		"M=-1",
	)
	f.label(endLabel)
}
