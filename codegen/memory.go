package codegen

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/sarchlab/hackvm/vm"
)

func (g *Generator) push(f *fragment, seg vm.Segment, index int) error {
	switch seg {
	case vm.Constant:
		if err := g.checkRange(seg, index, maxConstant); err != nil {
			return err
		}
		f.emit("@"+strconv.Itoa(index), "D=A")
	case vm.Local, vm.Argument, vm.This, vm.That:
		if err := g.checkRange(seg, index, maxConstant); err != nil {
			return err
		}
		f.emit(
			"@"+strconv.Itoa(index),
			"D=A",
			"@"+baseRegisters[seg.String()],
			"A=D+M",
			"D=M",
		)
	case vm.Temp, vm.Pointer, vm.Static:
		addr, err := g.fixedAddress(seg, index)
		if err != nil {
			return err
		}
		f.emit("@"+addr, "D=M")
	default:
		return errors.Errorf("push from unknown segment %d", seg)
	}

	f.emit(pushD...)

	return nil
}

func (g *Generator) pop(f *fragment, seg vm.Segment, index int) error {
	switch seg {
	case vm.Local, vm.Argument, vm.This, vm.That:
		if err := g.checkRange(seg, index, maxConstant); err != nil {
			return err
		}
		f.emit(
			"@"+strconv.Itoa(index),
			"D=A",
			"@"+baseRegisters[seg.String()],
			"D=D+M",
			"@R13",
			"M=D",
		)
		f.emit(popD...)
		f.emit(
			"@R13",
			"A=M",
			"M=D",
		)
	case vm.Temp, vm.Pointer, vm.Static:
		addr, err := g.fixedAddress(seg, index)
		if err != nil {
			return err
		}
		f.emit(popD...)
		f.emit("@"+addr, "M=D")
	case vm.Constant:
		return errors.New("cannot pop into the constant segment")
	default:
		return errors.Errorf("pop into unknown segment %d", seg)
	}

	return nil
}

// fixedAddress resolves segments whose cells do not move at run time to an
// A-instruction operand.
func (g *Generator) fixedAddress(seg vm.Segment, index int) (string, error) {
	switch seg {
	case vm.Temp:
		if err := g.checkRange(seg, index, tempSize-1); err != nil {
			return "", err
		}
		return strconv.Itoa(tempBase + index), nil
	case vm.Pointer:
		if err := g.checkRange(seg, index, 1); err != nil {
			return "", err
		}
		if index == 0 {
			return "THIS", nil
		}
		return "THAT", nil
	case vm.Static:
		if g.module == "" {
			return "", errors.New("static access before any module boundary")
		}
		return StaticSymbol(g.module, index), nil
	}

	return "", errors.Errorf("segment %s has no fixed address", seg)
}

func (g *Generator) checkRange(seg vm.Segment, index, limit int) error {
	if index < 0 || index > limit {
		return &vm.SegmentRangeError{
			Module:  g.module,
			Segment: seg,
			Index:   index,
			Limit:   limit,
		}
	}
	return nil
}

// StaticSymbol names the cell backing static index of module. The assembler
// allocates such symbols from RAM 16 upward, one cell per distinct symbol.
func StaticSymbol(module string, index int) string {
	return module + "." + strconv.Itoa(index)
}
