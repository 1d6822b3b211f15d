package translator

// ModuleStats counts what one module contributed to the output.
type ModuleStats struct {
	Module       string
	Commands     int
	Instructions int
	Labels       int
}

// Stats summarizes one translation run.
type Stats struct {
	Modules   []ModuleStats
	Bootstrap bool

	// Instructions and Labels include the bootstrap and end loop.
	Instructions int
	Labels       int

	// GeneratedLabels is the number of label numbers the run drew from its
	// label service.
	GeneratedLabels int
}

func (s *Stats) add(instructions, labels int) {
	s.Instructions += instructions
	s.Labels += labels
}
