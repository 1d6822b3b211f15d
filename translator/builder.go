package translator

import "github.com/sarchlab/hackvm/config"

// Builder creates translators.
type Builder struct {
	cfg config.Config
	set bool
}

// WithConfig sets every translator option from a config.
func (b Builder) WithConfig(cfg config.Config) Builder {
	b.cfg = cfg
	b.set = true
	return b
}

// WithBootstrap sets the bootstrap mode.
func (b Builder) WithBootstrap(mode config.BootstrapMode) Builder {
	b.cfg = b.base()
	b.cfg.Bootstrap = mode
	b.set = true
	return b
}

// WithComments makes the output carry the VM command above each fragment.
func (b Builder) WithComments(comments bool) Builder {
	b.cfg = b.base()
	b.cfg.Comments = comments
	b.set = true
	return b
}

// WithEndLoop appends a terminal loop after the last module.
func (b Builder) WithEndLoop(endLoop bool) Builder {
	b.cfg = b.base()
	b.cfg.EndLoop = endLoop
	b.set = true
	return b
}

func (b Builder) base() config.Config {
	if b.set {
		return b.cfg
	}
	return config.Default()
}

// Build creates a translator.
func (b Builder) Build() Translator {
	return &translatorImpl{cfg: b.base()}
}
