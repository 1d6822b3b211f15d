package hack

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
)

// LevelTrace sits below Debug and is used for per-instruction logging.
const LevelTrace slog.Level = slog.LevelDebug - 4

// Trace logs at LevelTrace.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

func traceEnabled() bool {
	return slog.Default().Enabled(context.Background(), LevelTrace)
}

var registerNames = map[int]string{
	SP:   "SP",
	LCL:  "LCL",
	ARG:  "ARG",
	THIS: "THIS",
	THAT: "THAT",
}

// StateTable renders the CPU registers, the VM pointer registers and the
// requested RAM cells.
func StateTable(c *CPU, addrs []int) string {
	regTable := table.NewWriter()
	regTable.SetTitle("CPU")
	regTable.AppendHeader(table.Row{"PC", "A", "D", "Cycles", "Halted"})
	regTable.AppendRow(table.Row{c.PC(), c.A(), c.D(), c.Cycles(), c.Halted()})

	ramTable := table.NewWriter()
	ramTable.SetTitle("RAM")
	ramTable.AppendHeader(table.Row{"Addr", "Name", "Value"})

	for addr := SP; addr <= THAT; addr++ {
		ramTable.AppendRow(table.Row{addr, registerNames[addr], c.Peek(addr)})
	}
	ramTable.AppendSeparator()

	for _, addr := range addrs {
		if addr < 0 || addr >= RAMSize {
			continue
		}
		ramTable.AppendRow(table.Row{addr, registerNames[addr], c.Peek(addr)})
	}

	return fmt.Sprintf("%s\n%s\n", regTable.Render(), ramTable.Render())
}
