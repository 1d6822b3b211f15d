package codegen

import "strconv"

// function declares the entry label and zeroes numLocals cells. On entry LCL
// equals SP, so pushing zeros initializes local 0..numLocals-1 in order.
func (g *Generator) function(f *fragment, name string, numLocals int) {
	f.label(name)

	for i := 0; i < numLocals; i++ {
		f.emit(
			"@SP",
			"A=M",
			"M=0",
			"@SP",
			"M=M+1",
		)
	}
}

// call saves the caller's frame, repositions ARG and LCL for the callee and
// jumps. The sequence is fixed:
//
//	push return-address
//	push LCL, ARG, THIS, THAT
//	ARG = SP - numArgs - 5
//	LCL = SP
//	goto name
//	(return-address)
func (g *Generator) call(f *fragment, name string, numArgs int) {
	ret := g.labels.ReturnSite(name)

	f.emit("@"+ret, "D=A")
	f.emit(pushD...)

	for _, reg := range []string{"LCL", "ARG", "THIS", "THAT"} {
		f.emit("@"+reg, "D=M")
		f.emit(pushD...)
	}

	f.emit(
		"@SP",
		"D=M",
		"@"+strconv.Itoa(frameSize),
		"D=D-A",
		"@"+strconv.Itoa(numArgs),
		"D=D-A",
		"@ARG",
		"M=D",
		"@SP",
		"D=M",
		"@LCL",
		"M=D",
	)

	g.jump(f, name)
	f.label(ret)
}

// ret tears down the current frame. R13 holds the frame base and R14 the
// return address; the return address is read before *ARG is overwritten
// because for a zero-argument call ARG points at that very cell. LCL is
// restored last since frame is derived from it.
func (g *Generator) ret(f *fragment) {
	f.emit(
		"@LCL",
		"D=M",
		"@R13",
		"M=D",
		"@"+strconv.Itoa(frameSize),
		"A=D-A",
		"D=M",
		"@R14",
		"M=D",
	)

	f.emit(popD...)
	f.emit(
		"@ARG",
		"A=M",
		"M=D",
		"@ARG",
		"D=M+1",
		"@SP",
		"M=D",
	)

	for _, reg := range []string{"THAT", "THIS", "ARG", "LCL"} {
		f.emit(
			"@R13",
			"AM=M-1",
			"D=M",
			"@"+reg,
			"M=D",
		)
	}

	f.emit(
		"@R14",
		"A=M",
		"0;JMP",
	)
}
