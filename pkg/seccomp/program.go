// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package seccomp

import (
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/net/bpf"

	"github.com/devicejail/devicejail/pkg/arch"
)

// Program is a compiled filter: an assembled classic BPF program valid
// for exactly one architecture. It has no update operation; a different
// policy means compiling a brand-new program.
type Program struct {
	target        arch.Arch
	defaultAction Action
	insns         []bpf.Instruction
	raw           []bpf.RawInstruction
}

// Arch returns the architecture the program was compiled for.
func (p *Program) Arch() arch.Arch {
	return p.target
}

// DefaultAction returns the action applied to syscalls the policy does
// not name.
func (p *Program) DefaultAction() Action {
	return p.defaultAction
}

// Instructions returns a copy of the assembled program.
func (p *Program) Instructions() []bpf.RawInstruction {
	out := make([]bpf.RawInstruction, len(p.raw))
	copy(out, p.raw)
	return out
}

// Len returns the instruction count.
func (p *Program) Len() int {
	return len(p.raw)
}

// Bytes returns the canonical little-endian encoding of the assembled
// program. Identical policy input always produces identical bytes, so
// this is the form to hash or diff when reviewing what a worker will
// actually run under.
func (p *Program) Bytes() []byte {
	buf := make([]byte, 0, len(p.raw)*8)
	var tmp [8]byte
	for _, ins := range p.raw {
		binary.LittleEndian.PutUint16(tmp[0:2], ins.Op)
		tmp[2] = ins.Jt
		tmp[3] = ins.Jf
		binary.LittleEndian.PutUint32(tmp[4:8], ins.K)
		buf = append(buf, tmp[:]...)
	}
	return buf
}

// Disassemble renders the program one instruction per line for review.
func (p *Program) Disassemble() string {
	var sb strings.Builder
	for i, ins := range p.insns {
		fmt.Fprintf(&sb, "%3d: %v\n", i, ins)
	}
	return sb.String()
}

// seccomp_data layout, include/linux/seccomp.h. The argument halves are
// addressed for little-endian machines, which covers every supported
// architecture.
const (
	dataOffsetNR   = 0
	dataOffsetArch = 4
	dataOffsetArgs = 16
)

func dataOffsetArgLow(i int) uint32 {
	return uint32(dataOffsetArgs + i*8)
}

func dataOffsetArgHigh(i int) uint32 {
	return dataOffsetArgLow(i) + 4
}
