package vm

// Segment is a named region of VM memory.
type Segment int

const (
	Local Segment = iota
	Argument
	This
	That
	Temp
	Pointer
	Static
	Constant
)

var segmentNames = [...]string{
	Local:    "local",
	Argument: "argument",
	This:     "this",
	That:     "that",
	Temp:     "temp",
	Pointer:  "pointer",
	Static:   "static",
	Constant: "constant",
}

var segmentsByName = map[string]Segment{
	"local":    Local,
	"argument": Argument,
	"this":     This,
	"that":     That,
	"temp":     Temp,
	"pointer":  Pointer,
	"static":   Static,
	"constant": Constant,
}

func (s Segment) String() string {
	if s < 0 || int(s) >= len(segmentNames) {
		return "segment(?)"
	}
	return segmentNames[s]
}

// ParseSegment looks up a segment keyword.
func ParseSegment(name string) (Segment, bool) {
	s, ok := segmentsByName[name]
	return s, ok
}
