package codegen

import (
	"strings"
)

// Hack addresses the generator relies on.
const (
	tempBase = 5
	tempSize = 8

	// maxConstant is the largest value an A-instruction can load.
	maxConstant = 1<<15 - 1

	// frameSize is the number of cells a call site saves: the return
	// address and the caller's LCL, ARG, THIS and THAT.
	frameSize = 5
)

var baseRegisters = map[string]string{
	"local":    "LCL",
	"argument": "ARG",
	"this":     "THIS",
	"that":     "THAT",
}

// pushD stores D at *SP and advances SP.
var pushD = []string{
	"@SP",
	"A=M",
	"M=D",
	"@SP",
	"M=M+1",
}

// popD retreats SP and loads the old top into D.
var popD = []string{
	"@SP",
	"AM=M-1",
	"D=M",
}

type fragment struct {
	strings.Builder
}

func (f *fragment) emit(lines ...string) {
	for _, l := range lines {
		f.WriteString(l)
		f.WriteByte('\n')
	}
}

func (f *fragment) comment(text string) {
	f.emit("// " + text)
}

func (f *fragment) label(name string) {
	f.emit("(" + name + ")")
}

// Count returns the number of real instructions and label declarations in
// a piece of assembly text. Comments and blank lines are ignored.
func Count(asm string) (instructions, labels int) {
	for _, line := range strings.Split(asm, "\n") {
		line, _, _ = strings.Cut(line, "//")
		line = strings.TrimSpace(line)

		switch {
		case line == "":
		case strings.HasPrefix(line, "("):
			labels++
		default:
			instructions++
		}
	}

	return instructions, labels
}
