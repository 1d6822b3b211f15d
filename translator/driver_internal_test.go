package translator

import (
	"bytes"
	"io"
	"strings"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/sarchlab/hackvm/codegen"
	"github.com/sarchlab/hackvm/config"
	"github.com/sarchlab/hackvm/vm"
)

type trackedCloser struct {
	io.Reader
	closed bool
}

func (c *trackedCloser) Close() error {
	c.closed = true
	return nil
}

func module(text string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(text))
}

var _ = Describe("Driver", func() {
	var (
		mockCtrl   *gomock.Controller
		mockSource *MockModuleSource
		translator Translator
		out        *bytes.Buffer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		mockSource = NewMockModuleSource(mockCtrl)
		translator = Builder{}.Build()
		out = &bytes.Buffer{}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should translate modules in order with the entry module last", func() {
		mockSource.EXPECT().List().Return([]string{"Sys", "Main", "Array"}, nil)
		gomock.InOrder(
			mockSource.EXPECT().Open("Array").Return(module("push constant 1"), nil),
			mockSource.EXPECT().Open("Main").Return(module("push constant 2"), nil),
			mockSource.EXPECT().Open("Sys").Return(module("function Sys.init 0"), nil),
		)

		stats, err := translator.Translate(mockSource, out)

		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Bootstrap).To(BeTrue())
		Expect(stats.Modules).To(HaveLen(3))
		Expect(stats.Modules[0].Module).To(Equal("Array"))
		Expect(stats.Modules[2].Module).To(Equal("Sys"))
	})

	It("should close every module it opens", func() {
		a := &trackedCloser{Reader: strings.NewReader("push constant 1")}
		b := &trackedCloser{Reader: strings.NewReader("bogus")}
		mockSource.EXPECT().List().Return([]string{"A", "B"}, nil)
		mockSource.EXPECT().Open("A").Return(a, nil)
		mockSource.EXPECT().Open("B").Return(b, nil)

		_, err := translator.Translate(mockSource, out)

		Expect(err).To(HaveOccurred())
		Expect(a.closed).To(BeTrue())
		Expect(b.closed).To(BeTrue())
	})

	It("should fail when the modules cannot be listed", func() {
		mockSource.EXPECT().List().Return(nil, errors.New("permission denied"))

		_, err := translator.Translate(mockSource, out)

		Expect(err).To(MatchError(ContainSubstring("list modules")))
		Expect(err).To(MatchError(ContainSubstring("permission denied")))
	})

	It("should abort at the module that cannot be opened", func() {
		mockSource.EXPECT().List().Return([]string{"A", "B", "C"}, nil)
		mockSource.EXPECT().Open("A").Return(module("push constant 1"), nil)
		mockSource.EXPECT().Open("B").Return(nil, errors.New("gone"))

		_, err := translator.Translate(mockSource, out)

		Expect(err).To(MatchError(ContainSubstring("open module B")))
	})

	DescribeTable("invalid module lists",
		func(names []string) {
			mockSource.EXPECT().List().Return(names, nil)

			_, err := translator.Translate(mockSource, out)

			Expect(err).To(HaveOccurred())
			Expect(out.Len()).To(BeZero())
		},
		Entry("empty", []string{}),
		Entry("bad name", []string{"my-module"}),
		Entry("dollar in name", []string{"A$B"}),
		Entry("duplicate", []string{"A", "A"}),
	)

	It("should report write failures", func() {
		mockWriter := NewMockWriter(mockCtrl)
		mockSource.EXPECT().List().Return([]string{"Main"}, nil)
		mockSource.EXPECT().Open("Main").Return(module("push constant 1"), nil)
		mockWriter.EXPECT().
			Write(gomock.Any()).
			Return(0, errors.New("disk full")).
			AnyTimes()

		_, err := translator.Translate(mockSource, mockWriter)

		Expect(err).To(MatchError(ContainSubstring("write output")))
		Expect(err).To(MatchError(ContainSubstring("disk full")))
	})

	It("should write the whole program through the writer", func() {
		mockWriter := NewMockWriter(mockCtrl)
		var written bytes.Buffer
		mockSource.EXPECT().List().Return([]string{"Main"}, nil)
		mockSource.EXPECT().Open("Main").Return(module("push constant 1\npop temp 0"), nil)
		mockWriter.EXPECT().
			Write(gomock.Any()).
			DoAndReturn(func(p []byte) (int, error) {
				return written.Write(p)
			}).
			MinTimes(1)

		_, err := translator.Translate(mockSource, mockWriter)

		Expect(err).NotTo(HaveOccurred())
		Expect(written.String()).To(ContainSubstring("@5\nM=D\n"))
	})
})

var _ = Describe("Translate errors", func() {
	translate := func(src MapSource) error {
		_, err := Builder{}.Build().Translate(src, io.Discard)
		return err
	}

	It("should surface parse errors with their position", func() {
		err := translate(MapSource{
			"Good": "push constant 1",
			"Bad":  "push constant 1\npush heap 2",
		})

		var perr *vm.ParseError
		Expect(errors.As(err, &perr)).To(BeTrue())
		Expect(perr.Module).To(Equal("Bad"))
		Expect(perr.Line).To(Equal(2))
	})

	It("should surface unknown commands", func() {
		err := translate(MapSource{"Main": "push constant 1\n\nfrobnicate"})

		var uerr *vm.UnknownCommandError
		Expect(errors.As(err, &uerr)).To(BeTrue())
		Expect(uerr.Module).To(Equal("Main"))
		Expect(uerr.Line).To(Equal(3))
	})

	It("should refuse indices no A-instruction can hold", func() {
		err := translate(MapSource{"Main": "push local 40000\npop local 40000"})

		var rerr *vm.SegmentRangeError
		Expect(errors.As(err, &rerr)).To(BeTrue())
		Expect(rerr.Segment).To(Equal(vm.Local))
		Expect(rerr.Index).To(Equal(40000))
		Expect(err.Error()).To(HavePrefix("Main:1"))
	})

	It("should surface range errors with the module and line", func() {
		err := translate(MapSource{"Main": "push constant 1\npop temp 8"})

		var rerr *vm.SegmentRangeError
		Expect(errors.As(err, &rerr)).To(BeTrue())
		Expect(rerr.Module).To(Equal("Main"))
		Expect(rerr.Index).To(Equal(8))
		Expect(err.Error()).To(HavePrefix("Main:2"))
	})
})

var _ = Describe("Translate options", func() {
	translate := func(b Builder, src MapSource) (string, Stats) {
		var out bytes.Buffer
		stats, err := b.Build().Translate(src, &out)
		Expect(err).NotTo(HaveOccurred())
		return out.String(), stats
	}

	program := MapSource{
		"Main": "function Main.main 0\npush constant 7\nreturn",
		"Sys":  "function Sys.init 0\ncall Main.main 0\nlabel L\ngoto L",
	}
	library := MapSource{"Main": "push constant 7"}

	DescribeTable("bootstrap modes",
		func(mode config.BootstrapMode, src MapSource, expected bool) {
			asm, stats := translate(Builder{}.WithBootstrap(mode), src)

			Expect(stats.Bootstrap).To(Equal(expected))
			if expected {
				Expect(asm).To(HavePrefix("@256\nD=A\n@SP\nM=D\n"))
				Expect(asm).To(ContainSubstring("@Sys.init\n0;JMP\n"))
			} else {
				Expect(asm).NotTo(HavePrefix("@256\n"))
				Expect(asm).NotTo(ContainSubstring("@Sys.init\n0;JMP\n"))
			}
		},
		Entry("auto with the entry module", config.BootstrapAuto, program, true),
		Entry("auto without the entry module", config.BootstrapAuto, library, false),
		Entry("always", config.BootstrapAlways, library, true),
		Entry("never", config.BootstrapNever, program, false),
	)

	It("should bootstrap by default even without the entry module", func() {
		asm, stats := translate(Builder{}, MapSource{
			"Main": "function Main.main 0\npush constant 1\nreturn\n",
		})

		Expect(stats.Bootstrap).To(BeTrue())
		Expect(asm).To(HavePrefix("@256\nD=A\n@SP\nM=D\n"))
		Expect(asm).To(ContainSubstring("@Sys.init\n0;JMP\n"))
	})

	It("should use the configured entry and stack base", func() {
		cfg := config.Default()
		cfg.Entry = "Main.main"
		cfg.EntryModule = "Main"
		cfg.StackBase = 300

		asm, stats := translate(Builder{}.WithConfig(cfg), program)

		Expect(stats.Bootstrap).To(BeTrue())
		Expect(asm).To(HavePrefix("@300\n"))
		Expect(asm).To(ContainSubstring("@Main.main\n0;JMP\n"))
		Expect(stats.Modules[0].Module).To(Equal("Sys"))
		Expect(stats.Modules[1].Module).To(Equal("Main"))
	})

	It("should annotate fragments with comments", func() {
		asm, _ := translate(Builder{}.WithComments(true), library)

		Expect(asm).To(ContainSubstring("// module Main\n"))
		Expect(asm).To(ContainSubstring("// push constant 7\n@7\n"))
	})

	It("should append the end loop", func() {
		asm, _ := translate(Builder{}.WithEndLoop(true), library)

		Expect(asm).To(HaveSuffix("($end)\n@$end\n0;JMP\n"))
	})

	It("should keep options set before other options", func() {
		asm, stats := translate(
			Builder{}.WithBootstrap(config.BootstrapNever).WithEndLoop(true),
			program,
		)

		Expect(stats.Bootstrap).To(BeFalse())
		Expect(asm).To(HaveSuffix("($end)\n@$end\n0;JMP\n"))
	})

	It("should count what each module contributes", func() {
		asm, stats := translate(Builder{}, program)

		Expect(stats.Modules).To(HaveLen(2))
		Expect(stats.Modules[0].Commands).To(Equal(3))
		Expect(stats.Modules[1].Commands).To(Equal(4))

		instructions, labels := codegen.Count(asm)
		Expect(stats.Instructions).To(Equal(instructions))
		Expect(stats.Labels).To(Equal(labels))

		moduleInst := 0
		for _, m := range stats.Modules {
			moduleInst += m.Instructions
		}
		Expect(moduleInst).To(BeNumerically("<", instructions))
		Expect(stats.GeneratedLabels).To(Equal(2))
	})

	It("should produce identical output on every run", func() {
		first, _ := translate(Builder{}, program)
		second, _ := translate(Builder{}, program)

		Expect(second).To(Equal(first))
	})
})

var _ = Describe("Order", func() {
	It("should sort in byte order and move the entry module last", func() {
		names := []string{"Sys", "b", "A", "Main", "_x"}

		Expect(Order(names, "Sys")).To(Equal([]string{"A", "Main", "_x", "b", "Sys"}))
		Expect(names[0]).To(Equal("Sys"))
	})

	It("should only sort when the entry module is absent", func() {
		Expect(Order([]string{"b", "a"}, "Sys")).To(Equal([]string{"a", "b"}))
	})
})
