// Package translator drives a whole translation run: it orders the modules,
// emits the bootstrap and streams every module through the reader and the
// code generator into one assembly output.
package translator

import (
	"bufio"
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/sarchlab/hackvm/codegen"
	"github.com/sarchlab/hackvm/config"
	"github.com/sarchlab/hackvm/label"
	"github.com/sarchlab/hackvm/vm"
)

// Translator turns a set of VM modules into Hack assembly.
type Translator interface {
	// Translate writes the assembly for every module of src to w. The first
	// error aborts the run; whatever was written to w by then is not a
	// valid program.
	Translate(src ModuleSource, w io.Writer) (Stats, error)
}

type translatorImpl struct {
	cfg config.Config
}

// run holds the state of one Translate call. Each run owns its label
// service, so concurrent or repeated runs never share label numbers.
type run struct {
	cfg   config.Config
	src   ModuleSource
	out   *bufio.Writer
	gen   *codegen.Generator
	stats Stats
}

func (t *translatorImpl) Translate(src ModuleSource, w io.Writer) (Stats, error) {
	names, err := src.List()
	if err != nil {
		return Stats{}, errors.Wrap(err, "list modules")
	}

	if err := checkNames(names); err != nil {
		return Stats{}, err
	}

	labels := label.New()
	r := &run{
		cfg: t.cfg,
		src: src,
		out: bufio.NewWriter(w),
		gen: codegen.Builder{}.
			WithLabelService(labels).
			WithComments(t.cfg.Comments).
			Build(),
	}

	ordered := Order(names, t.cfg.EntryModule)
	r.stats.Bootstrap = t.needsBootstrap(ordered)

	slog.Info("Translator",
		"Behavior", "Translate",
		"Modules", ordered,
		"Bootstrap", r.stats.Bootstrap,
	)

	if r.stats.Bootstrap {
		if err := r.write(r.gen.Bootstrap(t.cfg.StackBase, t.cfg.Entry)); err != nil {
			return Stats{}, err
		}
	}

	for _, name := range ordered {
		if err := r.translateModule(name); err != nil {
			return Stats{}, err
		}
	}

	if t.cfg.EndLoop {
		if err := r.write(r.gen.EndLoop()); err != nil {
			return Stats{}, err
		}
	}

	if err := r.out.Flush(); err != nil {
		return Stats{}, errors.Wrap(err, "write output")
	}

	r.stats.GeneratedLabels = labels.Issued()

	return r.stats, nil
}

func (t *translatorImpl) needsBootstrap(modules []string) bool {
	switch t.cfg.Bootstrap {
	case config.BootstrapAlways:
		return true
	case config.BootstrapNever:
		return false
	}

	for _, m := range modules {
		if m == t.cfg.EntryModule {
			return true
		}
	}

	return false
}

func checkNames(names []string) error {
	if len(names) == 0 {
		return errors.New("no modules to translate")
	}

	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if !vm.IsIdentifier(n) {
			return errors.Errorf("module name %q is not a valid identifier", n)
		}
		if seen[n] {
			return errors.Errorf("module %s listed twice", n)
		}
		seen[n] = true
	}

	return nil
}

func (r *run) write(asm string) error {
	r.stats.add(codegen.Count(asm))

	if _, err := r.out.WriteString(asm); err != nil {
		return errors.Wrap(err, "write output")
	}

	return nil
}

func (r *run) translateModule(name string) error {
	rc, err := r.src.Open(name)
	if err != nil {
		return errors.Wrapf(err, "open module %s", name)
	}
	defer rc.Close()

	ms := ModuleStats{Module: name}
	reader := vm.NewReader(name, rc)

	for {
		cmd, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		asm, err := r.gen.Generate(cmd)
		if err != nil {
			return errors.Wrapf(err, "%s:%d", name, reader.Line())
		}

		if _, boundary := cmd.(vm.ModuleBoundary); !boundary {
			ms.Commands++
		}
		inst, labels := codegen.Count(asm)
		ms.Instructions += inst
		ms.Labels += labels

		if err := r.write(asm); err != nil {
			return err
		}
	}

	slog.Debug("Translator",
		"Behavior", "Module",
		"Module", name,
		"Commands", ms.Commands,
		"Instructions", ms.Instructions,
	)
	r.stats.Modules = append(r.stats.Modules, ms)

	return nil
}
