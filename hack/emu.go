package hack

import (
	"strings"

	"github.com/pkg/errors"
)

type compFunc func(d, a uint16) uint16

// comps lists the a=0 mnemonics; the a=1 forms are the same with M in place
// of A.
var comps = map[string]compFunc{
	"0":   func(d, a uint16) uint16 { return 0 },
	"1":   func(d, a uint16) uint16 { return 1 },
	"-1":  func(d, a uint16) uint16 { return 0xFFFF },
	"D":   func(d, a uint16) uint16 { return d },
	"A":   func(d, a uint16) uint16 { return a },
	"!D":  func(d, a uint16) uint16 { return ^d },
	"!A":  func(d, a uint16) uint16 { return ^a },
	"-D":  func(d, a uint16) uint16 { return -d },
	"-A":  func(d, a uint16) uint16 { return -a },
	"D+1": func(d, a uint16) uint16 { return d + 1 },
	"A+1": func(d, a uint16) uint16 { return a + 1 },
	"D-1": func(d, a uint16) uint16 { return d - 1 },
	"A-1": func(d, a uint16) uint16 { return a - 1 },
	"D+A": func(d, a uint16) uint16 { return d + a },
	"D-A": func(d, a uint16) uint16 { return d - a },
	"A-D": func(d, a uint16) uint16 { return a - d },
	"D&A": func(d, a uint16) uint16 { return d & a },
	"D|A": func(d, a uint16) uint16 { return d | a },
}

// Commuted spellings accepted by most assemblers.
var compAliases = map[string]string{
	"1+D": "D+1",
	"1+A": "A+1",
	"A+D": "D+A",
	"A&D": "D&A",
	"A|D": "D|A",
}

var jumps = map[string]func(v int16) bool{
	"":    func(v int16) bool { return false },
	"JGT": func(v int16) bool { return v > 0 },
	"JEQ": func(v int16) bool { return v == 0 },
	"JGE": func(v int16) bool { return v >= 0 },
	"JLT": func(v int16) bool { return v < 0 },
	"JNE": func(v int16) bool { return v != 0 },
	"JLE": func(v int16) bool { return v <= 0 },
	"JMP": func(v int16) bool { return true },
}

func lookupComp(comp string) (f compFunc, useM bool, ok bool) {
	if strings.Contains(comp, "M") {
		if strings.Contains(comp, "A") {
			return nil, false, false
		}
		useM = true
		comp = strings.ReplaceAll(comp, "M", "A")
	}

	if alias, isAlias := compAliases[comp]; isAlias {
		comp = alias
	}

	f, ok = comps[comp]
	return f, useM, ok
}

type cpuState struct {
	PC   uint16
	A, D uint16
	RAM  []uint16
	Code []Instruction
}

type instEmulator struct {
}

// RunInst executes one instruction and advances the PC.
func (i instEmulator) RunInst(inst Instruction, state *cpuState) error {
	if inst.Kind == AInst {
		state.A = inst.Value
		state.PC++
		return nil
	}

	addr := state.A

	y := state.A
	if inst.useM {
		if int(addr) >= len(state.RAM) {
			return errors.Errorf("read of RAM[%d] out of range", addr)
		}
		y = state.RAM[addr]
	}

	v := inst.compute(state.D, y)

	if strings.ContainsRune(inst.Dest, 'M') {
		if int(addr) >= len(state.RAM) {
			return errors.Errorf("write to RAM[%d] out of range", addr)
		}
		state.RAM[addr] = v
	}
	if strings.ContainsRune(inst.Dest, 'D') {
		state.D = v
	}
	if strings.ContainsRune(inst.Dest, 'A') {
		state.A = v
	}

	if jumps[inst.Jump](int16(v)) {
		state.PC = addr
		return nil
	}

	state.PC++

	return nil
}
