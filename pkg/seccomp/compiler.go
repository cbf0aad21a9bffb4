// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package seccomp

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/net/bpf"

	"github.com/devicejail/devicejail/pkg/arch"
	"github.com/devicejail/devicejail/pkg/policy"
	"github.com/devicejail/devicejail/pkg/symtab"
)

// Options configures compilation.
type Options struct {
	// DefaultAction is applied to syscalls the policy does not name.
	DefaultAction Action

	// IgnoreMissingSyscalls drops rules naming syscalls the target
	// architecture does not have (e.g. open in a policy compiled for
	// arm64) instead of failing. Names unknown on every architecture
	// still fail: those are typos, not ABI differences.
	IgnoreMissingSyscalls bool
}

type resolvedClause struct {
	arg int
	op  policy.Operator
	val uint64
}

type resolvedRule struct {
	nr      uint32
	rule    policy.Rule
	clauses []resolvedClause
}

// Compile translates a merged policy into a BPF program for the target
// architecture. Every symbolic name is resolved up front; any failure
// aborts the whole compilation so a partially resolved policy can never
// be installed. Output is deterministic: the same (policy, arch, options)
// input produces byte-identical programs.
func Compile(pol *policy.Policy, target arch.Arch, opts Options) (*Program, error) {
	if target.AuditArch() == 0 {
		return nil, fmt.Errorf("unsupported architecture %q", target)
	}

	rules, err := resolveRules(pol, target, opts)
	if err != nil {
		return nil, err
	}

	b := newBuilder()

	// Refuse to evaluate a foreign ABI's syscall numbering.
	b.stmt(bpf.LoadAbsolute{Off: dataOffsetArch, Size: 4})
	b.jif(bpf.JumpEqual, target.AuditArch(), "arch_ok", "")
	b.ja("default")
	b.label("arch_ok")

	b.stmt(bpf.LoadAbsolute{Off: dataOffsetNR, Size: 4})
	for i, r := range rules {
		end := fmt.Sprintf("r%d_end", i)
		b.jif(bpf.JumpEqual, r.nr, "", end)
		if r.rule.AllowAll {
			b.ja("allow")
		} else {
			for j, c := range r.clauses {
				emitClause(b, i, j, c)
			}
			// No clause matched.
			b.ja("default")
		}
		b.label(end)
	}

	b.label("default")
	b.stmt(bpf.RetConstant{Val: uint32(opts.DefaultAction)})
	b.label("allow")
	b.stmt(bpf.RetConstant{Val: uint32(ActionAllow)})

	insns, err := b.resolve()
	if err != nil {
		return nil, fmt.Errorf("laying out filter: %w", err)
	}
	raw, err := bpf.Assemble(insns)
	if err != nil {
		return nil, fmt.Errorf("assembling filter: %w", err)
	}

	return &Program{
		target:        target,
		defaultAction: opts.DefaultAction,
		insns:         insns,
		raw:           raw,
	}, nil
}

func resolveRules(pol *policy.Policy, target arch.Arch, opts Options) ([]resolvedRule, error) {
	rules := make([]resolvedRule, 0, pol.Len())
	for _, name := range pol.Names() {
		r, _ := pol.Rule(name)
		nr, err := symtab.SyscallNumber(name, target)
		if err != nil {
			if opts.IgnoreMissingSyscalls && errors.Is(err, symtab.ErrUnknownSyscall) && symtab.KnownAnywhere(name) {
				continue
			}
			return nil, fmt.Errorf("%s:%d: %w", r.File, r.Line, err)
		}

		rr := resolvedRule{nr: uint32(nr), rule: r}
		for _, c := range r.Clauses {
			val := c.Val.Literal
			if !c.Val.IsLiteral() {
				val, err = symtab.Resolve(c.Val.Symbol, target)
				if err != nil {
					return nil, fmt.Errorf("%s:%d: %w", r.File, r.Line, err)
				}
			}
			if c.Val.Complement {
				val = ^val
			}
			rr.clauses = append(rr.clauses, resolvedClause{arg: c.Arg, op: c.Op, val: val})
		}
		rules = append(rules, rr)
	}

	// Names() is sorted, making resolution order stable; the dispatch
	// sequence is additionally laid out in syscall-number order.
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].nr < rules[j].nr })
	return rules, nil
}

// emitClause renders one argument comparison. Arguments are 64-bit in
// seccomp_data but BPF compares 32-bit words, so each comparison checks
// the low and high halves separately. A matching clause jumps to the
// program-wide allow label; a failing one falls through to the next
// clause of the same rule.
func emitClause(b *builder, ruleIdx, clauseIdx int, c resolvedClause) {
	next := fmt.Sprintf("r%d_c%d_next", ruleIdx, clauseIdx)
	low, high := uint32(c.val), uint32(c.val>>32)

	switch c.op {
	case policy.OpEqual:
		b.stmt(bpf.LoadAbsolute{Off: dataOffsetArgLow(c.arg), Size: 4})
		b.jif(bpf.JumpEqual, low, "", next)
		b.stmt(bpf.LoadAbsolute{Off: dataOffsetArgHigh(c.arg), Size: 4})
		b.jif(bpf.JumpEqual, high, "", next)
		b.ja("allow")

	case policy.OpNotEqual:
		// Unequal in either half is enough.
		match := fmt.Sprintf("r%d_c%d_match", ruleIdx, clauseIdx)
		b.stmt(bpf.LoadAbsolute{Off: dataOffsetArgLow(c.arg), Size: 4})
		b.jif(bpf.JumpEqual, low, "", match)
		b.stmt(bpf.LoadAbsolute{Off: dataOffsetArgHigh(c.arg), Size: 4})
		b.jif(bpf.JumpEqual, high, next, match)
		b.label(match)
		b.ja("allow")

	case policy.OpMaskSet:
		// (arg & val) == val: every bit of the value must be set.
		b.stmt(bpf.LoadAbsolute{Off: dataOffsetArgLow(c.arg), Size: 4})
		b.stmt(bpf.ALUOpConstant{Op: bpf.ALUOpAnd, Val: low})
		b.jif(bpf.JumpEqual, low, "", next)
		b.stmt(bpf.LoadAbsolute{Off: dataOffsetArgHigh(c.arg), Size: 4})
		b.stmt(bpf.ALUOpConstant{Op: bpf.ALUOpAnd, Val: high})
		b.jif(bpf.JumpEqual, high, "", next)
		b.ja("allow")

	case policy.OpIn:
		// (arg & ^val) == 0: no bit outside the value may be set.
		b.stmt(bpf.LoadAbsolute{Off: dataOffsetArgLow(c.arg), Size: 4})
		b.stmt(bpf.ALUOpConstant{Op: bpf.ALUOpAnd, Val: ^low})
		b.jif(bpf.JumpEqual, 0, "", next)
		b.stmt(bpf.LoadAbsolute{Off: dataOffsetArgHigh(c.arg), Size: 4})
		b.stmt(bpf.ALUOpConstant{Op: bpf.ALUOpAnd, Val: ^high})
		b.jif(bpf.JumpEqual, 0, "", next)
		b.ja("allow")
	}

	b.label(next)
}
