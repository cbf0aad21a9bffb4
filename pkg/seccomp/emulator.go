// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package seccomp

import (
	"fmt"

	"golang.org/x/net/bpf"
)

// Data mirrors struct seccomp_data: the input the kernel hands a seccomp
// program on every syscall entry.
type Data struct {
	NR   int32
	Arch uint32
	IP   uint64
	Args [6]uint64
}

func (d Data) word(off uint32) (uint32, error) {
	switch {
	case off == dataOffsetNR:
		return uint32(d.NR), nil
	case off == dataOffsetArch:
		return d.Arch, nil
	case off == 8:
		return uint32(d.IP), nil
	case off == 12:
		return uint32(d.IP >> 32), nil
	case off >= dataOffsetArgs && off < dataOffsetArgs+6*8 && off%4 == 0:
		arg := d.Args[(off-dataOffsetArgs)/8]
		if (off-dataOffsetArgs)%8 == 4 {
			return uint32(arg >> 32), nil
		}
		return uint32(arg), nil
	}
	return 0, fmt.Errorf("load outside seccomp_data at offset %d", off)
}

// Simulate evaluates the program against a synthetic syscall entry and
// returns the action the kernel would take. This exists so policies can
// be reviewed and property-tested without installing anything; the
// compiler only ever emits the instruction forms handled here.
func (p *Program) Simulate(d Data) (Action, error) {
	acc := uint32(0)
	pc := 0
	for steps := 0; steps < len(p.insns)+1; steps++ {
		if pc < 0 || pc >= len(p.insns) {
			return 0, fmt.Errorf("program counter %d out of range", pc)
		}
		switch ins := p.insns[pc].(type) {
		case bpf.LoadAbsolute:
			if ins.Size != 4 {
				return 0, fmt.Errorf("unsupported load size %d at %d", ins.Size, pc)
			}
			w, err := d.word(ins.Off)
			if err != nil {
				return 0, err
			}
			acc = w
			pc++
		case bpf.ALUOpConstant:
			if ins.Op != bpf.ALUOpAnd {
				return 0, fmt.Errorf("unsupported ALU op at %d", pc)
			}
			acc &= ins.Val
			pc++
		case bpf.Jump:
			pc += 1 + int(ins.Skip)
		case bpf.JumpIf:
			var taken bool
			switch ins.Cond {
			case bpf.JumpEqual:
				taken = acc == ins.Val
			case bpf.JumpGreaterThan:
				taken = acc > ins.Val
			default:
				return 0, fmt.Errorf("unsupported jump condition at %d", pc)
			}
			if taken {
				pc += 1 + int(ins.SkipTrue)
			} else {
				pc += 1 + int(ins.SkipFalse)
			}
		case bpf.RetConstant:
			return Action(ins.Val), nil
		default:
			return 0, fmt.Errorf("unsupported instruction %T at %d", ins, pc)
		}
	}
	// Forward-only jumps make this unreachable for well-formed programs.
	return 0, fmt.Errorf("program did not terminate")
}
