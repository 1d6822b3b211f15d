package verify

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/sarchlab/hackvm/hack"
)

type symbolUse struct {
	name string
	line int
	jump bool
}

// Lint inspects assembly text and returns the issues found, ordered by line.
func Lint(asm string) []Issue {
	var issues []Issue

	var defs []string
	defLines := map[string][]int{}
	var uses []*symbolUse
	var pending *symbolUse

	for i, raw := range strings.Split(asm, "\n") {
		line := i + 1
		text, _, _ := strings.Cut(raw, "//")
		text = strings.TrimSpace(text)

		switch {
		case text == "":
			continue
		case strings.HasPrefix(text, "("):
			if !strings.HasSuffix(text, ")") || len(text) < 3 {
				issues = append(issues, Issue{
					Type:    IssueSyntax,
					Line:    line,
					Message: fmt.Sprintf("malformed label declaration %s", text),
				})
				continue
			}
			name := text[1 : len(text)-1]
			defs = append(defs, name)
			defLines[name] = append(defLines[name], line)
		case strings.HasPrefix(text, "@"):
			pending = nil
			operand := text[1:]
			if operand == "" || isNumber(operand) || hack.IsPredefined(operand) {
				continue
			}
			pending = &symbolUse{name: operand, line: line}
			uses = append(uses, pending)
		default:
			if pending != nil && strings.Contains(text, ";") {
				pending.jump = true
			}
			pending = nil
		}
	}

	for _, name := range lo.FindDuplicates(defs) {
		lines := defLines[name]
		issues = append(issues, Issue{
			Type:   IssueLabel,
			Line:   lines[1],
			Symbol: name,
			Message: fmt.Sprintf("label %s declared %d times (lines %s)",
				name, len(lines), joinInts(lines)),
		})
	}

	for _, u := range uses {
		if u.jump && len(defLines[u.name]) == 0 {
			issues = append(issues, Issue{
				Type:    IssueLabel,
				Line:    u.line,
				Symbol:  u.name,
				Message: fmt.Sprintf("jump to undeclared label %s", u.name),
			})
		}
	}

	variables := lo.Uniq(lo.FilterMap(uses, func(u *symbolUse, _ int) (string, bool) {
		return u.name, len(defLines[u.name]) == 0
	}))
	if len(variables) > StaticCapacity {
		issues = append(issues, Issue{
			Type: IssueStatic,
			Message: fmt.Sprintf("%d variables exceed the static region of %d cells",
				len(variables), StaticCapacity),
		})
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Line < issues[j].Line
	})

	return issues
}

func isNumber(s string) bool {
	_, err := strconv.ParseUint(s, 10, 16)
	return err == nil
}

func joinInts(v []int) string {
	return strings.Join(lo.Map(v, func(n int, _ int) string {
		return strconv.Itoa(n)
	}), ", ")
}
