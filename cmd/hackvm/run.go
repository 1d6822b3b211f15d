package main

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/hackvm/config"
	"github.com/sarchlab/hackvm/hack"
	"github.com/sarchlab/hackvm/translator"
	"github.com/spf13/cobra"
)

var runFlags struct {
	maxCycles uint64
	peek      string
	set       string
	monitor   bool
	bootstrap string
}

var runCmd = &cobra.Command{
	Use:   "run <file.vm|dir>",
	Short: "Translate and execute on the Hack emulator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("max-cycles") {
			cfg.MaxCycles = runFlags.maxCycles
		}
		if cmd.Flags().Changed("bootstrap") {
			cfg.Bootstrap = config.BootstrapMode(runFlags.bootstrap)
		}
		cfg.EndLoop = true
		if err := cfg.Validate(); err != nil {
			return err
		}

		addrs, err := parseAddrs(runFlags.peek)
		if err != nil {
			return err
		}

		pokes, err := parsePokes(runFlags.set)
		if err != nil {
			return err
		}

		src, err := translator.NewFileSource(args[0])
		if err != nil {
			return err
		}

		var asm bytes.Buffer
		if _, err := (translator.Builder{}).WithConfig(cfg).Build().Translate(src, &asm); err != nil {
			return err
		}

		prog, err := hack.Parse(asm.String())
		if err != nil {
			return errors.Wrap(err, "assemble")
		}

		engine := sim.NewSerialEngine()
		cpu := hack.NewBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			WithMaxCycles(cfg.MaxCycles).
			Build("CPU")
		cpu.Load(prog)
		for _, p := range pokes {
			cpu.Poke(p.addr, p.value)
		}

		if runFlags.monitor {
			monitor := monitoring.NewMonitor()
			monitor.RegisterEngine(engine)
			monitor.RegisterComponent(cpu)
			monitor.StartServer()
		}

		runErr := cpu.Run()
		fmt.Fprint(cmd.OutOrStdout(), hack.StateTable(cpu, addrs))

		return runErr
	},
}

func init() {
	f := runCmd.Flags()
	f.Uint64Var(&runFlags.maxCycles, "max-cycles", 0, "stop after this many instructions")
	f.StringVar(&runFlags.peek, "peek", "", "comma-separated RAM addresses or ranges to print, e.g. 256,300-303")
	f.StringVar(&runFlags.set, "set", "", "initial RAM values, e.g. 0=256,1=300 for programs run with --bootstrap never")
	f.BoolVar(&runFlags.monitor, "monitor", false, "serve the akita monitor while running")
	f.StringVar(&runFlags.bootstrap, "bootstrap", "", "always (default), auto or never")
}

// parseAddrs accepts "a,b,c-d".
func parseAddrs(s string) ([]int, error) {
	var addrs []int

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		from, to, isRange := strings.Cut(part, "-")
		first, err := strconv.Atoi(from)
		if err != nil {
			return nil, errors.Errorf("bad address %q", part)
		}
		last := first
		if isRange {
			if last, err = strconv.Atoi(to); err != nil || last < first {
				return nil, errors.Errorf("bad address range %q", part)
			}
		}

		for a := first; a <= last; a++ {
			addrs = append(addrs, a)
		}
	}

	return addrs, nil
}

type poke struct {
	addr  int
	value int16
}

// parsePokes accepts "addr=value,addr=value".
func parsePokes(s string) ([]poke, error) {
	var pokes []poke

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		a, v, ok := strings.Cut(part, "=")
		if !ok {
			return nil, errors.Errorf("bad assignment %q", part)
		}

		addr, err := strconv.Atoi(strings.TrimSpace(a))
		if err != nil || addr < 0 || addr >= hack.RAMSize {
			return nil, errors.Errorf("bad address in %q", part)
		}

		value, err := strconv.ParseInt(strings.TrimSpace(v), 10, 16)
		if err != nil {
			return nil, errors.Errorf("bad value in %q", part)
		}

		pokes = append(pokes, poke{addr: addr, value: int16(value)})
	}

	return pokes, nil
}
