package vm

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Module is one named unit of VM source. The name is the static-variable
// namespace, conventionally the file stem.
type Module struct {
	Name   string
	Source io.Reader
}

// Reader turns the text of one module into commands. The first command it
// returns is always the ModuleBoundary for the module.
type Reader struct {
	module  string
	scanner *bufio.Scanner
	line    int
	scope   string
	started bool
}

// NewReader creates a reader for the named module.
func NewReader(module string, r io.Reader) *Reader {
	return &Reader{
		module:  module,
		scanner: bufio.NewScanner(r),
		scope:   module,
	}
}

// Line returns the source line of the last command returned by Next.
func (r *Reader) Line() int {
	return r.line
}

// Scope returns the function that encloses the current position.
func (r *Reader) Scope() string {
	return r.scope
}

// Next returns the next command, or io.EOF once the module is exhausted.
func (r *Reader) Next() (Command, error) {
	if !r.started {
		r.started = true
		return ModuleBoundary{Module: r.module}, nil
	}

	for r.scanner.Scan() {
		r.line++

		text, _, _ := strings.Cut(r.scanner.Text(), "//")
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		return r.parse(text)
	}

	if err := r.scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read module %s", r.module)
	}

	return nil, io.EOF
}

func (r *Reader) parse(text string) (Command, error) {
	fields := strings.Fields(text)
	keyword := fields[0]

	if op, ok := arithOps[keyword]; ok {
		if err := r.arity(text, fields, 1); err != nil {
			return nil, err
		}
		return Arithmetic{Op: op}, nil
	}

	switch keyword {
	case "push", "pop":
		return r.parseMemoryAccess(text, fields)
	case "label", "goto", "if-goto":
		return r.parseFlow(text, fields)
	case "function", "call":
		return r.parseFunction(text, fields)
	case "return":
		if err := r.arity(text, fields, 1); err != nil {
			return nil, err
		}
		return Return{}, nil
	}

	return nil, &UnknownCommandError{
		Module:  r.module,
		Line:    r.line,
		Keyword: keyword,
	}
}

func (r *Reader) parseMemoryAccess(text string, fields []string) (Command, error) {
	if err := r.arity(text, fields, 3); err != nil {
		return nil, err
	}

	seg, ok := ParseSegment(fields[1])
	if !ok {
		return nil, r.errorf(text, "unknown segment %s", fields[1])
	}

	index, err := r.number(text, fields[2])
	if err != nil {
		return nil, err
	}

	if fields[0] == "push" {
		return Push{Segment: seg, Index: index}, nil
	}

	if seg == Constant {
		return nil, r.errorf(text, "cannot pop into the constant segment")
	}

	return Pop{Segment: seg, Index: index}, nil
}

func (r *Reader) parseFlow(text string, fields []string) (Command, error) {
	if err := r.arity(text, fields, 2); err != nil {
		return nil, err
	}

	name := fields[1]
	if !IsIdentifier(name) {
		return nil, r.errorf(text, "invalid label %s", name)
	}

	switch fields[0] {
	case "label":
		return Label{Scope: r.scope, Name: name}, nil
	case "goto":
		return Goto{Scope: r.scope, Name: name}, nil
	default:
		return If{Scope: r.scope, Name: name}, nil
	}
}

func (r *Reader) parseFunction(text string, fields []string) (Command, error) {
	if err := r.arity(text, fields, 3); err != nil {
		return nil, err
	}

	name := fields[1]
	if !IsFunctionName(name) {
		return nil, r.errorf(text, "invalid function name %s", name)
	}

	n, err := r.count(text, fields[2])
	if err != nil {
		return nil, err
	}

	if fields[0] == "call" {
		return Call{Name: name, NumArgs: n}, nil
	}

	slog.Debug("Reader",
		"Behavior", "EnterFunction",
		"Module", r.module,
		"Line", r.line,
		"Function", name,
	)
	r.scope = name

	return Function{Name: name, NumLocals: n}, nil
}

func (r *Reader) arity(text string, fields []string, n int) error {
	if len(fields) != n {
		return r.errorf(text, "%s expects %d operand(s), got %d",
			fields[0], n-1, len(fields)-1)
	}
	return nil
}

func (r *Reader) number(text, field string) (int, error) {
	v, err := strconv.ParseUint(field, 10, 16)
	if err != nil {
		return 0, r.errorf(text, "invalid index %s", field)
	}
	return int(v), nil
}

// count parses a local or argument count. Counts are loaded by a single
// A-instruction, so they are limited to 15 bits.
func (r *Reader) count(text, field string) (int, error) {
	v, err := strconv.ParseUint(field, 10, 15)
	if err != nil {
		return 0, r.errorf(text, "invalid count %s", field)
	}
	return int(v), nil
}

func (r *Reader) errorf(text, format string, args ...any) error {
	return &ParseError{
		Module: r.module,
		Line:   r.line,
		Text:   text,
		Reason: fmt.Sprintf(format, args...),
	}
}

// IsIdentifier reports whether s is a legal VM function or label name: a
// sequence of letters, digits, '_', '.' and ':' not starting with a digit.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c == '_', c == '.', c == ':':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}

	return true
}

// reservedNames are Hack symbols a function label would shadow.
var reservedNames = map[string]bool{
	"SP": true, "LCL": true, "ARG": true, "THIS": true, "THAT": true,
	"SCREEN": true, "KBD": true,
}

func init() {
	for i := 0; i < 16; i++ {
		reservedNames["R"+strconv.Itoa(i)] = true
	}
}

// IsFunctionName reports whether s can name a function. On top of being an
// identifier, its last dot-separated field must not be all digits, since
// "Module.3" is the symbol of static 3 of Module, and it must not be a
// predefined Hack symbol such as SP or R13.
func IsFunctionName(s string) bool {
	if !IsIdentifier(s) || reservedNames[s] {
		return false
	}

	last := s[strings.LastIndex(s, ".")+1:]

	return !allDigits(last)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ReadAll reads every module in order and returns the full command stream.
func ReadAll(modules []Module) ([]Command, error) {
	var cmds []Command

	for _, m := range modules {
		r := NewReader(m.Name, m.Source)
		for {
			cmd, err := r.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
			cmds = append(cmds, cmd)
		}
	}

	return cmds, nil
}
