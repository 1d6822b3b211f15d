package main

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/hackvm/hack"
	"github.com/sarchlab/hackvm/translator"
	"github.com/tebeka/atexit"
)

//go:embed Main.vm
var mainVM string

//go:embed Sys.vm
var sysVM string

func main() {
	src := translator.MapSource{
		"Main": mainVM,
		"Sys":  sysVM,
	}

	var asm bytes.Buffer
	stats, err := translator.Builder{}.Build().Translate(src, &asm)
	if err != nil {
		fmt.Println(err)
		atexit.Exit(1)
	}

	prog, err := hack.Parse(asm.String())
	if err != nil {
		fmt.Println(err)
		atexit.Exit(1)
	}

	engine := sim.NewSerialEngine()
	cpu := hack.NewBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithMaxCycles(10_000_000).
		Build("CPU")
	cpu.Load(prog)

	if err := cpu.Run(); err != nil {
		fmt.Println(err)
		atexit.Exit(1)
	}

	// Sys.init's frame ends at 261, so the result lands there.
	fmt.Printf("fibonacci(15) = %d (%d instructions, %d cycles)\n",
		cpu.Peek(261), stats.Instructions, cpu.Cycles())

	atexit.Exit(0)
}
