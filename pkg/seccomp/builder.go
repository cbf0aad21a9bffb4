// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package seccomp

import (
	"fmt"

	"golang.org/x/net/bpf"
)

// builder assembles a BPF program from statements and label-targeted
// jumps, resolving labels to skip counts once the layout is final. Every
// entry emits exactly one instruction, so entry indices double as
// instruction addresses.
type builder struct {
	entries []entry
	labels  map[string]int
	err     error
}

type entry interface{}

type condJump struct {
	cond     bpf.JumpTest
	val      uint32
	skipTrue string // "" falls through
	skipFals string // "" falls through
}

type jumpTo struct {
	label string
}

func newBuilder() *builder {
	return &builder{labels: make(map[string]int)}
}

func (b *builder) stmt(ins bpf.Instruction) {
	b.entries = append(b.entries, ins)
}

// jif emits a conditional jump. Targets must be close: conditional BPF
// jumps carry 8-bit displacements, and resolve fails if a label lands
// further away.
func (b *builder) jif(cond bpf.JumpTest, val uint32, skipTrue, skipFalse string) {
	b.entries = append(b.entries, condJump{cond: cond, val: val, skipTrue: skipTrue, skipFals: skipFalse})
}

// ja emits an unconditional jump, which can reach anywhere forward.
func (b *builder) ja(label string) {
	b.entries = append(b.entries, jumpTo{label: label})
}

func (b *builder) label(name string) {
	if _, ok := b.labels[name]; ok && b.err == nil {
		b.err = fmt.Errorf("duplicate label %q", name)
	}
	b.labels[name] = len(b.entries)
}

func (b *builder) skipTo(label string, from int) (uint32, error) {
	target, ok := b.labels[label]
	if !ok {
		return 0, fmt.Errorf("undefined label %q", label)
	}
	skip := target - (from + 1)
	if skip < 0 {
		return 0, fmt.Errorf("backward jump to %q", label)
	}
	return uint32(skip), nil
}

func (b *builder) resolve() ([]bpf.Instruction, error) {
	if b.err != nil {
		return nil, b.err
	}
	out := make([]bpf.Instruction, 0, len(b.entries))
	for i, e := range b.entries {
		switch e := e.(type) {
		case condJump:
			var skipTrue, skipFalse uint32
			var err error
			if e.skipTrue != "" {
				if skipTrue, err = b.skipTo(e.skipTrue, i); err != nil {
					return nil, err
				}
			}
			if e.skipFals != "" {
				if skipFalse, err = b.skipTo(e.skipFals, i); err != nil {
					return nil, err
				}
			}
			if skipTrue > 255 || skipFalse > 255 {
				return nil, fmt.Errorf("conditional jump out of range at %d (rule too complex)", i)
			}
			out = append(out, bpf.JumpIf{
				Cond:      e.cond,
				Val:       e.val,
				SkipTrue:  uint8(skipTrue),
				SkipFalse: uint8(skipFalse),
			})
		case jumpTo:
			skip, err := b.skipTo(e.label, i)
			if err != nil {
				return nil, err
			}
			out = append(out, bpf.Jump{Skip: skip})
		case bpf.Instruction:
			out = append(out, e)
		default:
			return nil, fmt.Errorf("unknown builder entry %T", e)
		}
	}
	return out, nil
}
