// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package policy

import (
	"fmt"
	"strings"
)

// SyntaxError reports a malformed policy line.
type SyntaxError struct {
	File string
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

// IncludeCycleError reports a policy file that transitively includes
// itself.
type IncludeCycleError struct {
	File  string
	Chain []string
}

func (e *IncludeCycleError) Error() string {
	return fmt.Sprintf("include cycle: %s (via %s)", e.File, strings.Join(e.Chain, " -> "))
}

// IncludeNotFoundError reports an @include target that none of the search
// paths contain.
type IncludeNotFoundError struct {
	File   string
	Line   int
	Target string
}

func (e *IncludeNotFoundError) Error() string {
	return fmt.Sprintf("%s:%d: include %q not found in search paths", e.File, e.Line, e.Target)
}
