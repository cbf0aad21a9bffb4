// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

// Package symtab resolves the symbolic names appearing in device policies
// (syscall names, flag bits, ioctl request numbers) to their numeric values
// for a chosen target architecture.
//
// Resolution is pure and total over a fixed, architecture-indexed table: the
// same (name, arch) pair always yields the same value, and a name absent
// from the table is a hard error. A missing symbol must never default to
// zero, since that would quietly turn an argument restriction into a
// wildcard.
package symtab

import (
	"errors"
	"fmt"

	"github.com/devicejail/devicejail/pkg/arch"
)

var (
	// ErrUnknownConstant is returned when a symbolic constant is not in
	// the table for the requested architecture.
	ErrUnknownConstant = errors.New("unknown constant")

	// ErrUnknownSyscall is returned when a syscall name has no number on
	// the requested architecture.
	ErrUnknownSyscall = errors.New("unknown syscall")
)

// SyscallNumber resolves a syscall name for the given architecture.
func SyscallNumber(name string, a arch.Arch) (int, error) {
	var table map[string]int
	switch a {
	case arch.AMD64:
		table = syscallsAMD64
	case arch.ARM64:
		table = syscallsARM64
	case arch.I386:
		table = syscallsI386
	default:
		return 0, fmt.Errorf("%w: no syscall table for architecture %s", ErrUnknownSyscall, a)
	}
	nr, ok := table[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s on %s", ErrUnknownSyscall, name, a)
	}
	return nr, nil
}

// Resolve resolves a symbolic constant for the given architecture.
func Resolve(name string, a arch.Arch) (uint64, error) {
	if overrides, ok := archConstants[a]; ok {
		if v, ok := overrides[name]; ok {
			return v, nil
		}
	}
	if v, ok := baseConstants[name]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %s on %s", ErrUnknownConstant, name, a)
}

// HasSyscall reports whether a syscall exists on the given architecture.
// Callers use it to drop rules for syscalls the target ABI does not have
// when that behavior was explicitly requested.
func HasSyscall(name string, a arch.Arch) bool {
	_, err := SyscallNumber(name, a)
	return err == nil
}

// KnownAnywhere reports whether any supported architecture has the
// syscall. It separates names that are merely absent from one ABI (open
// on arm64) from names no ABI has, which are almost certainly typos and
// must never be silently dropped.
func KnownAnywhere(name string) bool {
	return HasSyscall(name, arch.AMD64) || HasSyscall(name, arch.ARM64) || HasSyscall(name, arch.I386)
}
