// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package seccomp

import (
	"errors"
	"fmt"
	"sync"

	"github.com/devicejail/devicejail/pkg/arch"
)

var (
	// ErrAlreadyInstalled is returned on a second Install in the same
	// process. Stacking two independently compiled filters has no
	// composition semantics worth trusting, so it is rejected outright.
	ErrAlreadyInstalled = errors.New("seccomp filter already installed")

	// ErrInstallationRejected wraps kernel-level refusal to install a
	// filter. There is no degraded unsandboxed mode; callers must treat
	// this as fatal.
	ErrInstallationRejected = errors.New("seccomp filter installation rejected")
)

// Sandbox marks the process as confined. It deliberately exposes no
// uninstall or relax operation: once installed, the filter outlives every
// code path in the process and ends only at process exit.
type Sandbox struct {
	target arch.Arch
	action Action
}

// Arch returns the architecture of the installed filter.
func (s *Sandbox) Arch() arch.Arch {
	return s.target
}

// DefaultAction returns the installed filter's default action.
func (s *Sandbox) DefaultAction() Action {
	return s.action
}

var (
	installMu sync.Mutex
	confined  bool
)

// Install loads the compiled program into the calling process's syscall
// path and flips the process into its permanent restricted state. It must
// run before any untrusted input is processed, and it can only ever
// succeed once per process.
func Install(prog *Program) (*Sandbox, error) {
	return installWith(prog, loadFilter)
}

func installWith(prog *Program, load func(*Program) error) (*Sandbox, error) {
	native, err := arch.Native()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInstallationRejected, err)
	}
	if prog.Arch() != native {
		return nil, fmt.Errorf("%w: program compiled for %s, process runs %s", ErrInstallationRejected, prog.Arch(), native)
	}

	installMu.Lock()
	defer installMu.Unlock()
	if confined {
		return nil, ErrAlreadyInstalled
	}
	if err := load(prog); err != nil {
		return nil, err
	}
	confined = true
	return &Sandbox{target: prog.Arch(), action: prog.DefaultAction()}, nil
}
