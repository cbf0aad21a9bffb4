// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

// Package seccomp compiles merged device policies into classic BPF
// programs for the kernel's seccomp filter mechanism and installs them
// into the calling process. Compilation is pure and deterministic;
// installation is a one-way transition that cannot be undone for the
// lifetime of the process.
package seccomp

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Action is a fully encoded seccomp return value: a SECCOMP_RET_* action
// in the high bits plus, for the errno action, the errno in the data
// bits. Values from include/uapi/linux/seccomp.h.
type Action uint32

const (
	ActionKillProcess Action = 0x80000000
	ActionKillThread  Action = 0x00000000
	ActionTrap        Action = 0x00030000
	ActionErrnoBase   Action = 0x00050000
	ActionLog         Action = 0x7ffc0000
	ActionAllow       Action = 0x7fff0000

	actionMask Action = 0xffff0000
	dataMask   Action = 0x0000ffff
)

// ActionErrno returns the action that fails the syscall with the given
// errno instead of delivering it.
func ActionErrno(errno uint16) Action {
	return ActionErrnoBase | Action(errno)
}

// ParseAction maps a configuration string to a default action. "errno"
// denies with EPERM; processes that should not survive a violation use
// "kill-process", which is also the default everywhere in this project.
func ParseAction(s string) (Action, error) {
	switch s {
	case "kill-process":
		return ActionKillProcess, nil
	case "kill-thread":
		return ActionKillThread, nil
	case "trap":
		return ActionTrap, nil
	case "errno":
		return ActionErrno(uint16(unix.EPERM)), nil
	case "log":
		return ActionLog, nil
	case "allow":
		return ActionAllow, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

func (a Action) String() string {
	switch a & actionMask {
	case ActionKillProcess & actionMask:
		return "kill-process"
	case ActionKillThread & actionMask:
		return "kill-thread"
	case ActionTrap & actionMask:
		return "trap"
	case ActionErrnoBase & actionMask:
		return fmt.Sprintf("errno(%d)", uint16(a&dataMask))
	case ActionLog & actionMask:
		return "log"
	case ActionAllow & actionMask:
		return "allow"
	}
	return fmt.Sprintf("action(%#x)", uint32(a))
}
