package main

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/sarchlab/hackvm/config"
	"github.com/sarchlab/hackvm/hack"
	"github.com/sarchlab/hackvm/translator"
	"github.com/tebeka/atexit"
)

//go:embed SimpleAdd.vm
var program string

func main() {
	var asm bytes.Buffer
	_, err := translator.Builder{}.
		WithBootstrap(config.BootstrapNever).
		WithEndLoop(true).
		Build().
		Translate(translator.MapSource{"SimpleAdd": program}, &asm)
	if err != nil {
		fmt.Println(err)
		atexit.Exit(1)
	}

	cpu, err := hack.RunSource(asm.String(), 1000, func(c *hack.CPU) {
		c.Poke(hack.SP, 256)
	})
	if err != nil {
		fmt.Println(err)
		atexit.Exit(1)
	}

	fmt.Print(hack.StateTable(cpu, []int{256}))
	atexit.Exit(0)
}
