// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

// Package policy parses the device worker policy language: one directive
// per line, either an @include of another policy file or a syscall rule
// with an optional argument constraint expression. Parsing resolves
// includes into a single merged rule set but leaves syscall names and
// symbolic constants as strings; numbers are bound at compile time so a
// parsed policy stays architecture independent.
package policy

import (
	"fmt"
	"sort"
	"strings"
)

// Operator is the comparison applied to one syscall argument.
type Operator int

const (
	// OpEqual allows the call when the argument equals the value.
	OpEqual Operator = iota
	// OpNotEqual allows the call when the argument differs from the value.
	OpNotEqual
	// OpMaskSet allows the call when every bit of the value is set in the
	// argument, the minijail "&" test: (arg & value) == value.
	OpMaskSet
	// OpIn allows the call when the argument has no bits outside the
	// value, the minijail "in" test: (arg & ^value) == 0. Written with a
	// complemented operand ("arg2 in ~PROT_EXEC") it forbids exactly the
	// named bits.
	OpIn
)

func (op Operator) String() string {
	switch op {
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpMaskSet:
		return "&"
	case OpIn:
		return "in"
	}
	return "?"
}

// Value is a clause operand: either a literal written in the policy or a
// symbolic name resolved against the target architecture at compile time.
// Complement applies a 64-bit bitwise NOT after resolution.
type Value struct {
	Symbol     string
	Literal    uint64
	Complement bool
}

// IsLiteral reports whether the value was written as a number.
func (v Value) IsLiteral() bool {
	return v.Symbol == ""
}

func (v Value) String() string {
	s := v.Symbol
	if v.IsLiteral() {
		s = fmt.Sprintf("%#x", v.Literal)
	}
	if v.Complement {
		return "~" + s
	}
	return s
}

// Clause constrains a single syscall argument.
type Clause struct {
	Arg int
	Op  Operator
	Val Value
}

func (c Clause) String() string {
	return fmt.Sprintf("arg%d %s %s", c.Arg, c.Op, c.Val)
}

// Rule is the policy for one syscall: either an unconditional allow or a
// disjunction of argument clauses, any of which admits the call. File and
// Line point at the rule's origin for error reporting.
type Rule struct {
	Syscall  string
	AllowAll bool
	Clauses  []Clause

	File string
	Line int
}

func (r Rule) String() string {
	if r.AllowAll {
		return r.Syscall + ": 1"
	}
	parts := make([]string, len(r.Clauses))
	for i, c := range r.Clauses {
		parts[i] = c.String()
	}
	return r.Syscall + ": " + strings.Join(parts, " || ")
}

// Policy is a merged, immutable rule set: every syscall name appears at
// most once after include resolution.
type Policy struct {
	rules map[string]Rule
}

// Rule returns the rule for a syscall name.
func (p *Policy) Rule(name string) (Rule, bool) {
	r, ok := p.rules[name]
	return r, ok
}

// Names returns the syscall names in the policy, sorted.
func (p *Policy) Names() []string {
	names := make([]string, 0, len(p.rules))
	for name := range p.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of rules.
func (p *Policy) Len() int {
	return len(p.rules)
}

func (p *Policy) String() string {
	var sb strings.Builder
	for _, name := range p.Names() {
		sb.WriteString(p.rules[name].String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
