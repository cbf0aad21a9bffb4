// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package policy

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// maxIncludeDepth bounds include recursion. The cycle check catches a file
// including itself; the depth cap additionally stops symlink arrangements
// that present the same file under unbounded fresh paths.
const maxIncludeDepth = 16

var (
	clauseRegexp  = regexp.MustCompile(`^arg([0-5])\s*(==|!=|&|\bin\b)\s*(\S+)$`)
	symbolRegexp  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	syscallRegexp = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// Parse reads the policy file at path, resolves @include directives
// against the file's own directory and then searchPaths in order, and
// returns the merged policy. The including file's rule wins whenever the
// same syscall is named on both sides of an include, so overlays can
// narrow or relax individual rules while inheriting the rest.
func Parse(path string, searchPaths []string) (*Policy, error) {
	p := &parser{searchPaths: searchPaths}
	rules, err := p.parseFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &Policy{rules: rules}, nil
}

type parser struct {
	searchPaths []string
}

func (p *parser) parseFile(path string, stack []string) (map[string]Rule, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	for _, seen := range stack {
		if seen == abs {
			return nil, &IncludeCycleError{File: abs, Chain: append(stack, abs)}
		}
	}
	if len(stack) >= maxIncludeDepth {
		return nil, &IncludeCycleError{File: abs, Chain: append(stack, abs)}
	}
	stack = append(stack, abs)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy %s: %w", path, err)
	}
	defer f.Close()

	// Rules defined by this file override anything its includes bring in,
	// regardless of whether the rule line appears before or after the
	// @include directive. Includes are merged in line order, later
	// includes overriding earlier ones.
	own := make(map[string]Rule)
	merged := make(map[string]Rule)

	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if target, ok := strings.CutPrefix(line, "@include"); ok {
			target = strings.TrimSpace(target)
			if target == "" {
				return nil, &SyntaxError{File: path, Line: lineno, Msg: "@include requires a path"}
			}
			resolved, found := p.resolveInclude(filepath.Dir(path), target)
			if !found {
				return nil, &IncludeNotFoundError{File: path, Line: lineno, Target: target}
			}
			included, err := p.parseFile(resolved, stack)
			if err != nil {
				return nil, err
			}
			for name, rule := range included {
				merged[name] = rule
			}
			continue
		}

		rule, err := parseRule(path, lineno, line)
		if err != nil {
			return nil, err
		}
		if prev, ok := own[rule.Syscall]; ok {
			return nil, &SyntaxError{
				File: path,
				Line: lineno,
				Msg:  fmt.Sprintf("duplicate rule for %s (previous at line %d)", rule.Syscall, prev.Line),
			}
		}
		own[rule.Syscall] = rule
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading policy %s: %w", path, err)
	}

	for name, rule := range own {
		merged[name] = rule
	}
	return merged, nil
}

func (p *parser) resolveInclude(baseDir, target string) (string, bool) {
	if filepath.IsAbs(target) {
		if _, err := os.Stat(target); err == nil {
			return target, true
		}
		return "", false
	}
	for _, dir := range append([]string{baseDir}, p.searchPaths...) {
		candidate := filepath.Join(dir, target)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

func parseRule(file string, lineno int, line string) (Rule, error) {
	name, expr, ok := strings.Cut(line, ":")
	if !ok {
		return Rule{}, &SyntaxError{File: file, Line: lineno, Msg: "expected '<syscall>: <expr>' or '@include <path>'"}
	}
	name = strings.TrimSpace(name)
	if !syscallRegexp.MatchString(name) {
		return Rule{}, &SyntaxError{File: file, Line: lineno, Msg: fmt.Sprintf("invalid syscall name %q", name)}
	}

	rule := Rule{Syscall: name, File: file, Line: lineno}
	expr = strings.TrimSpace(expr)
	if expr == "1" {
		rule.AllowAll = true
		return rule, nil
	}
	if expr == "" {
		return Rule{}, &SyntaxError{File: file, Line: lineno, Msg: "empty expression"}
	}

	for _, part := range strings.Split(expr, "||") {
		clause, err := parseClause(file, lineno, strings.TrimSpace(part))
		if err != nil {
			return Rule{}, err
		}
		rule.Clauses = append(rule.Clauses, clause)
	}
	return rule, nil
}

func parseClause(file string, lineno int, s string) (Clause, error) {
	m := clauseRegexp.FindStringSubmatch(s)
	if m == nil {
		return Clause{}, &SyntaxError{File: file, Line: lineno, Msg: fmt.Sprintf("invalid argument clause %q", s)}
	}

	arg, _ := strconv.Atoi(m[1])
	var op Operator
	switch m[2] {
	case "==":
		op = OpEqual
	case "!=":
		op = OpNotEqual
	case "&":
		op = OpMaskSet
	case "in":
		op = OpIn
	}

	val, err := parseValue(m[3])
	if err != nil {
		return Clause{}, &SyntaxError{File: file, Line: lineno, Msg: err.Error()}
	}

	return Clause{Arg: arg, Op: op, Val: val}, nil
}

func parseValue(s string) (Value, error) {
	var complement bool
	if rest, ok := strings.CutPrefix(s, "~"); ok {
		complement = true
		s = rest
	}
	if n, err := strconv.ParseUint(s, 0, 64); err == nil {
		return Value{Literal: n, Complement: complement}, nil
	}
	if !symbolRegexp.MatchString(s) {
		return Value{}, fmt.Errorf("invalid value %q: not a number or constant name", s)
	}
	return Value{Symbol: s, Complement: complement}, nil
}
