package vm_test

import (
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/sarchlab/hackvm/vm"
)

func readAll(module, src string) ([]vm.Command, error) {
	return vm.ReadAll([]vm.Module{{Name: module, Source: strings.NewReader(src)}})
}

var _ = Describe("Reader", func() {
	It("should start every module with a boundary", func() {
		r := vm.NewReader("Main", strings.NewReader(""))

		cmd, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(cmd).To(Equal(vm.ModuleBoundary{Module: "Main"}))

		_, err = r.Next()
		Expect(err).To(Equal(io.EOF))
	})

	It("should strip comments and blank lines", func() {
		cmds, err := readAll("Main", `
// header comment

   push constant 7   // seven
	push constant 8
add//inline
`)
		Expect(err).NotTo(HaveOccurred())
		Expect(cmds).To(Equal([]vm.Command{
			vm.ModuleBoundary{Module: "Main"},
			vm.Push{Segment: vm.Constant, Index: 7},
			vm.Push{Segment: vm.Constant, Index: 8},
			vm.Arithmetic{Op: vm.Add},
		}))
	})

	It("should report the source line of each command", func() {
		r := vm.NewReader("Main", strings.NewReader("\n// c\npush constant 1\n\nadd\n"))

		_, _ = r.Next()
		_, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Line()).To(Equal(3))

		_, err = r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Line()).To(Equal(5))
	})

	DescribeTable("arithmetic keywords",
		func(text string, op vm.ArithOp) {
			cmds, err := readAll("M", text)
			Expect(err).NotTo(HaveOccurred())
			Expect(cmds[1]).To(Equal(vm.Arithmetic{Op: op}))
		},
		Entry("add", "add", vm.Add),
		Entry("sub", "sub", vm.Sub),
		Entry("neg", "neg", vm.Neg),
		Entry("eq", "eq", vm.Eq),
		Entry("gt", "gt", vm.Gt),
		Entry("lt", "lt", vm.Lt),
		Entry("and", "and", vm.And),
		Entry("or", "or", vm.Or),
		Entry("not", "not", vm.Not),
	)

	DescribeTable("memory access",
		func(text string, expected vm.Command) {
			cmds, err := readAll("M", text)
			Expect(err).NotTo(HaveOccurred())
			Expect(cmds[1]).To(Equal(expected))
		},
		Entry("push local", "push local 2", vm.Push{Segment: vm.Local, Index: 2}),
		Entry("push argument", "push argument 1", vm.Push{Segment: vm.Argument, Index: 1}),
		Entry("push this", "push this 6", vm.Push{Segment: vm.This, Index: 6}),
		Entry("push that", "push that 5", vm.Push{Segment: vm.That, Index: 5}),
		Entry("push temp", "push temp 7", vm.Push{Segment: vm.Temp, Index: 7}),
		Entry("push pointer", "push pointer 1", vm.Push{Segment: vm.Pointer, Index: 1}),
		Entry("push static", "push static 3", vm.Push{Segment: vm.Static, Index: 3}),
		Entry("push constant", "push constant 65535", vm.Push{Segment: vm.Constant, Index: 65535}),
		Entry("pop local", "pop local 0", vm.Pop{Segment: vm.Local, Index: 0}),
		Entry("pop static", "pop static 9", vm.Pop{Segment: vm.Static, Index: 9}),
	)

	It("should scope labels by the enclosing function", func() {
		cmds, err := readAll("Main", `
label TOP
function Main.a 0
label LOOP
goto LOOP
function Main.b 1
label LOOP
if-goto LOOP
return
`)
		Expect(err).NotTo(HaveOccurred())
		Expect(cmds).To(Equal([]vm.Command{
			vm.ModuleBoundary{Module: "Main"},
			vm.Label{Scope: "Main", Name: "TOP"},
			vm.Function{Name: "Main.a", NumLocals: 0},
			vm.Label{Scope: "Main.a", Name: "LOOP"},
			vm.Goto{Scope: "Main.a", Name: "LOOP"},
			vm.Function{Name: "Main.b", NumLocals: 1},
			vm.Label{Scope: "Main.b", Name: "LOOP"},
			vm.If{Scope: "Main.b", Name: "LOOP"},
			vm.Return{},
		}))
	})

	It("should reset the scope at each module", func() {
		cmds, err := vm.ReadAll([]vm.Module{
			{Name: "A", Source: strings.NewReader("function A.f 0\nlabel X")},
			{Name: "B", Source: strings.NewReader("label X")},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(cmds).To(ContainElement(vm.Label{Scope: "A.f", Name: "X"}))
		Expect(cmds).To(ContainElement(vm.Label{Scope: "B", Name: "X"}))
		Expect(cmds).To(ContainElement(vm.ModuleBoundary{Module: "B"}))
	})

	It("should parse calls without changing scope", func() {
		cmds, err := readAll("Main", "function Main.main 2\ncall Math.multiply 2\nlabel L")
		Expect(err).NotTo(HaveOccurred())
		Expect(cmds[2]).To(Equal(vm.Call{Name: "Math.multiply", NumArgs: 2}))
		Expect(cmds[3]).To(Equal(vm.Label{Scope: "Main.main", Name: "L"}))
	})

	DescribeTable("malformed lines",
		func(text string) {
			_, err := readAll("Bad", text)

			var perr *vm.ParseError
			Expect(errors.As(err, &perr)).To(BeTrue(), "error %v", err)
			Expect(perr.Module).To(Equal("Bad"))
			Expect(perr.Line).To(Equal(1))
			Expect(perr.Text).To(Equal(strings.TrimSpace(text)))
		},
		Entry("unknown segment", "push heap 1"),
		Entry("missing index", "push constant"),
		Entry("extra operand", "push constant 1 2"),
		Entry("non-numeric index", "pop local x"),
		Entry("negative index", "push constant -1"),
		Entry("index beyond 16 bits", "push constant 65536"),
		Entry("pop constant", "pop constant 3"),
		Entry("arithmetic with operand", "add 1"),
		Entry("return with operand", "return 0"),
		Entry("label without name", "label"),
		Entry("label with $", "label a$b"),
		Entry("label starting with digit", "goto 1abc"),
		Entry("function without count", "function Main.main"),
		Entry("count beyond 15 bits", "call Main.f 32768"),
		Entry("function named like a static", "function Main.3 0"),
		Entry("call to a static name", "call Main.12 1"),
		Entry("function named like a register", "function R13 0"),
		Entry("function named SP", "function SP 0"),
	)

	DescribeTable("unknown keywords",
		func(text, keyword string) {
			_, err := readAll("Bad", text)

			var uerr *vm.UnknownCommandError
			Expect(errors.As(err, &uerr)).To(BeTrue(), "error %v", err)
			Expect(uerr.Keyword).To(Equal(keyword))
			Expect(uerr.Line).To(Equal(1))
		},
		Entry("nonsense", "jump somewhere", "jump"),
		Entry("keyword prefix", "pushx constant 1", "pushx"),
		Entry("keyword suffix", "addition", "addition"),
		Entry("wrong case", "Push constant 1", "Push"),
	)

	It("should stop at the first error", func() {
		_, err := readAll("M", "push constant 1\nbogus\npush heap 2")

		var uerr *vm.UnknownCommandError
		Expect(errors.As(err, &uerr)).To(BeTrue())
		Expect(uerr.Line).To(Equal(2))
	})
})

var _ = Describe("IsIdentifier", func() {
	DescribeTable("names",
		func(name string, ok bool) {
			Expect(vm.IsIdentifier(name)).To(Equal(ok))
		},
		Entry("class method", "Main.fibonacci", true),
		Entry("underscore and colon", "_a:b", true),
		Entry("digits inside", "L1", true),
		Entry("empty", "", false),
		Entry("leading digit", "1L", false),
		Entry("dollar", "f$L", false),
		Entry("dash", "if-goto", false),
	)
})

var _ = Describe("IsFunctionName", func() {
	DescribeTable("names",
		func(name string, ok bool) {
			Expect(vm.IsFunctionName(name)).To(Equal(ok))
		},
		Entry("class method", "Main.fibonacci", true),
		Entry("digits inside the last field", "Main.f2", true),
		Entry("digits in a middle field", "A.1.b", true),
		Entry("register-like but unreserved", "R16", true),
		Entry("static symbol", "Main.3", false),
		Entry("nested static symbol", "A.1.23", false),
		Entry("predefined register", "R0", false),
		Entry("pointer register", "THAT", false),
		Entry("screen", "SCREEN", false),
		Entry("not an identifier", "f$g", false),
	)
})

var _ = Describe("Command", func() {
	It("should render VM source text", func() {
		Expect(vm.Push{Segment: vm.Static, Index: 2}.String()).To(Equal("push static 2"))
		Expect(vm.Pop{Segment: vm.Temp, Index: 1}.String()).To(Equal("pop temp 1"))
		Expect(vm.If{Scope: "f", Name: "L"}.String()).To(Equal("if-goto L"))
		Expect(vm.Call{Name: "f", NumArgs: 2}.String()).To(Equal("call f 2"))
		Expect(vm.Function{Name: "f", NumLocals: 3}.String()).To(Equal("function f 3"))
		Expect(vm.Return{}.String()).To(Equal("return"))
	})

	It("should classify arithmetic ops", func() {
		Expect(vm.Neg.Unary()).To(BeTrue())
		Expect(vm.Add.Unary()).To(BeFalse())
		Expect(vm.Lt.Comparison()).To(BeTrue())
		Expect(vm.And.Comparison()).To(BeFalse())
	})

	It("should look up segments by keyword", func() {
		seg, ok := vm.ParseSegment("pointer")
		Expect(ok).To(BeTrue())
		Expect(seg).To(Equal(vm.Pointer))
		Expect(seg.String()).To(Equal("pointer"))

		_, ok = vm.ParseSegment("Pointer")
		Expect(ok).To(BeFalse())
	})
})
