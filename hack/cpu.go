package hack

import (
	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"
)

// ErrCycleLimit is returned by Run when the program is still running after
// the configured number of cycles.
var ErrCycleLimit = errors.New("cycle limit reached")

// CPU executes Hack programs, one instruction per tick.
type CPU struct {
	*sim.TickingComponent

	engine    sim.Engine
	state     cpuState
	emu       instEmulator
	maxCycles uint64
	cycles    uint64
	halted    bool
	err       error
}

// Load replaces the program and resets the CPU. RAM is cleared.
func (c *CPU) Load(p *Program) {
	c.state = cpuState{
		RAM:  make([]uint16, RAMSize),
		Code: p.Instructions,
	}
	c.cycles = 0
	c.halted = false
	c.err = nil
}

// Peek reads a RAM cell as a signed word.
func (c *CPU) Peek(addr int) int16 {
	return int16(c.state.RAM[addr])
}

// Poke writes a RAM cell.
func (c *CPU) Poke(addr int, v int16) {
	c.state.RAM[addr] = uint16(v)
}

// PC returns the program counter.
func (c *CPU) PC() int {
	return int(c.state.PC)
}

// A returns the A register.
func (c *CPU) A() int16 {
	return int16(c.state.A)
}

// D returns the D register.
func (c *CPU) D() int16 {
	return int16(c.state.D)
}

// Cycles returns the number of instructions executed since Load.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// Halted reports whether the program ran off its end or parked on a
// self-loop.
func (c *CPU) Halted() bool {
	return c.halted
}

// Run schedules the CPU and drives the engine until the CPU stops making
// progress. TickLater is used so that a CPU reloaded on an engine whose clock
// has already advanced still gets its first tick.
func (c *CPU) Run() error {
	c.TickLater()

	if err := c.engine.Run(); err != nil {
		return errors.Wrap(err, "engine")
	}

	return c.err
}

// Tick runs one instruction.
func (c *CPU) Tick() (madeProgress bool) {
	if c.halted || c.err != nil {
		return false
	}

	pc := int(c.state.PC)
	if pc >= len(c.state.Code) {
		c.halt("EndOfProgram", pc)
		return false
	}

	if c.maxCycles > 0 && c.cycles >= c.maxCycles {
		c.err = errors.Wrapf(ErrCycleLimit, "after %d cycles at pc %d", c.cycles, pc)
		return false
	}

	inst := c.state.Code[pc]
	if err := c.emu.RunInst(inst, &c.state); err != nil {
		c.err = errors.Wrapf(err, "pc %d (line %d: %s)", pc, inst.Line, inst.Raw)
		return false
	}
	c.cycles++

	if traceEnabled() {
		Trace("Inst",
			"Cycle", c.cycles,
			"PC", pc,
			"Inst", inst.Raw,
			"A", int16(c.state.A),
			"D", int16(c.state.D),
			"SP", int16(c.state.RAM[SP]),
		)
	}

	if c.parked(pc, inst) {
		c.halt("Parked", pc)
		return false
	}

	return true
}

// parked detects the "@L / 0;JMP" idiom jumping back onto its own
// A-instruction, which is how Hack programs stop.
func (c *CPU) parked(pc int, inst Instruction) bool {
	if inst.Kind != CInst || inst.Jump != "JMP" || pc == 0 {
		return false
	}

	prev := c.state.Code[pc-1]

	return prev.Kind == AInst &&
		int(prev.Value) == pc-1 &&
		int(c.state.PC) == pc-1
}

func (c *CPU) halt(reason string, pc int) {
	c.halted = true
	Trace("Halt",
		"Reason", reason,
		"PC", pc,
		"Cycles", c.cycles,
	)
}
