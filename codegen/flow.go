package codegen

func (g *Generator) jump(f *fragment, target string) {
	f.emit(
		"@"+target,
		"0;JMP",
	)
}

// jumpIf pops the condition and jumps when it is non-zero.
func (g *Generator) jumpIf(f *fragment, target string) {
	f.emit(popD...)
	f.emit(
		"@"+target,
		"D;JNE",
	)
}
