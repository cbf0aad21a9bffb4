// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

//go:build !linux

package seccomp

import "fmt"

// Seccomp is Linux-only. Compilation and simulation work anywhere, which
// is what policy review tooling needs; actual enforcement does not.
func loadFilter(*Program) error {
	return fmt.Errorf("%w: seccomp filters require Linux", ErrInstallationRejected)
}
