package hack

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// InstKind tells A-instructions from C-instructions.
type InstKind int

const (
	AInst InstKind = iota
	CInst
)

// Instruction is one resolved Hack instruction.
type Instruction struct {
	Kind InstKind
	Line int
	Raw  string

	// A-instruction operand, after symbol resolution.
	Value uint16

	// C-instruction fields.
	Dest string
	Comp string
	Jump string

	compute compFunc
	useM    bool
}

// Program is assembled Hack code together with its symbol table.
type Program struct {
	Instructions []Instruction
	Labels       map[string]uint16
	Variables    map[string]uint16
}

// Well-known addresses.
const (
	SP     = 0
	LCL    = 1
	ARG    = 2
	THIS   = 3
	THAT   = 4
	Screen = 16384
	KBD    = 24576

	// VariableBase is the first RAM cell handed to undeclared symbols.
	VariableBase = 16

	// RAMSize covers the whole 15-bit data address space.
	RAMSize = 1 << 15
)

var predefined = map[string]uint16{
	"SP":     SP,
	"LCL":    LCL,
	"ARG":    ARG,
	"THIS":   THIS,
	"THAT":   THAT,
	"SCREEN": Screen,
	"KBD":    KBD,
}

func init() {
	for i := 0; i < 16; i++ {
		predefined["R"+strconv.Itoa(i)] = uint16(i)
	}
}

// IsPredefined reports whether sym is a built-in Hack symbol.
func IsPredefined(sym string) bool {
	_, ok := predefined[sym]
	return ok
}

type rawInst struct {
	line int
	text string
}

// Parse assembles symbolic Hack assembly. Labels are resolved in a first
// pass; remaining symbols become variables allocated from VariableBase in
// order of first use.
func Parse(src string) (*Program, error) {
	p := &Program{
		Labels:    make(map[string]uint16),
		Variables: make(map[string]uint16),
	}

	var raws []rawInst

	s := bufio.NewScanner(strings.NewReader(src))
	line := 0
	for s.Scan() {
		line++

		text, _, _ := strings.Cut(s.Text(), "//")
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "(") {
			name, err := parseLabel(text)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			if _, dup := p.Labels[name]; dup {
				return nil, errors.Errorf("line %d: label %s defined twice", line, name)
			}
			p.Labels[name] = uint16(len(raws))
			continue
		}

		raws = append(raws, rawInst{line: line, text: text})
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "scan assembly")
	}

	next := uint16(VariableBase)
	for _, r := range raws {
		var inst Instruction
		var err error

		if strings.HasPrefix(r.text, "@") {
			inst, err = p.parseA(r.text, &next)
		} else {
			inst, err = parseC(r.text)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", r.line)
		}

		inst.Line = r.line
		inst.Raw = r.text
		p.Instructions = append(p.Instructions, inst)
	}

	return p, nil
}

func parseLabel(text string) (string, error) {
	if !strings.HasSuffix(text, ")") || len(text) < 3 {
		return "", errors.Errorf("malformed label declaration %s", text)
	}

	name := text[1 : len(text)-1]
	if !isSymbol(name) {
		return "", errors.Errorf("illegal label %s", name)
	}

	return name, nil
}

func (p *Program) parseA(text string, next *uint16) (Instruction, error) {
	operand := text[1:]
	if operand == "" {
		return Instruction{}, errors.New("@ needs a constant or symbol")
	}

	if operand[0] >= '0' && operand[0] <= '9' {
		v, err := strconv.ParseUint(operand, 10, 15)
		if err != nil {
			return Instruction{}, errors.Errorf("constant %s is not a 15-bit value", operand)
		}
		return Instruction{Kind: AInst, Value: uint16(v)}, nil
	}

	if !isSymbol(operand) {
		return Instruction{}, errors.Errorf("illegal symbol %s", operand)
	}

	if v, ok := predefined[operand]; ok {
		return Instruction{Kind: AInst, Value: v}, nil
	}
	if v, ok := p.Labels[operand]; ok {
		return Instruction{Kind: AInst, Value: v}, nil
	}
	if v, ok := p.Variables[operand]; ok {
		return Instruction{Kind: AInst, Value: v}, nil
	}

	if *next >= Screen {
		return Instruction{}, errors.Errorf("out of variable space at %s", operand)
	}
	p.Variables[operand] = *next
	*next++

	return Instruction{Kind: AInst, Value: p.Variables[operand]}, nil
}

func parseC(text string) (Instruction, error) {
	inst := Instruction{Kind: CInst}

	rest := text
	if dest, after, ok := strings.Cut(rest, "="); ok {
		inst.Dest = strings.TrimSpace(dest)
		rest = after
	}
	comp, jump, _ := strings.Cut(rest, ";")
	inst.Comp = strings.TrimSpace(comp)
	inst.Jump = strings.TrimSpace(jump)

	if !validDest(inst.Dest) {
		return Instruction{}, errors.Errorf("illegal dest %q", inst.Dest)
	}
	if _, ok := jumps[inst.Jump]; !ok {
		return Instruction{}, errors.Errorf("illegal jump %q", inst.Jump)
	}

	f, useM, ok := lookupComp(inst.Comp)
	if !ok {
		return Instruction{}, errors.Errorf("illegal comp %q", inst.Comp)
	}
	inst.compute = f
	inst.useM = useM

	return inst, nil
}

func validDest(dest string) bool {
	seen := map[rune]bool{}
	for _, c := range dest {
		if !strings.ContainsRune("ADM", c) || seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}

// isSymbol accepts letters, digits, '_', '.', '$' and ':' and rejects a
// leading digit.
func isSymbol(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return false
	}

	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.ContainsRune("_.$:", c):
		default:
			return false
		}
	}

	return true
}
