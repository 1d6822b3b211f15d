package hack

import (
	"github.com/sarchlab/akita/v4/sim"
)

// Builder can create CPUs.
type Builder struct {
	engine    sim.Engine
	freq      sim.Freq
	maxCycles uint64
}

// WithEngine sets the engine. A serial engine is created when none is set.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the CPU.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithMaxCycles bounds the number of instructions a single Run may execute.
// Zero means unbounded.
func (b Builder) WithMaxCycles(n uint64) Builder {
	b.maxCycles = n
	return b
}

// NewBuilder returns a builder with a 1 GHz clock and a one million cycle
// limit.
func NewBuilder() Builder {
	return Builder{
		freq:      1 * sim.GHz,
		maxCycles: 1_000_000,
	}
}

// Build creates a CPU with an empty program.
func (b Builder) Build(name string) *CPU {
	engine := b.engine
	if engine == nil {
		engine = sim.NewSerialEngine()
	}

	freq := b.freq
	if freq == 0 {
		freq = 1 * sim.GHz
	}

	c := &CPU{
		engine:    engine,
		maxCycles: b.maxCycles,
	}
	c.TickingComponent = sim.NewTickingComponent(name, engine, freq, c)
	c.Load(&Program{})

	return c
}

// RunSource assembles src, loads it into a fresh CPU, applies setup (which
// may poke initial RAM values) and runs it.
func RunSource(src string, maxCycles uint64, setup func(c *CPU)) (*CPU, error) {
	p, err := Parse(src)
	if err != nil {
		return nil, err
	}

	c := NewBuilder().WithMaxCycles(maxCycles).Build("CPU")
	c.Load(p)

	if setup != nil {
		setup(c)
	}

	return c, c.Run()
}
