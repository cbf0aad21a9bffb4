// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

// Package arch enumerates the CPU architectures a seccomp program can be
// compiled for. The architecture is a first-class dimension of a compiled
// filter: syscall numbers and the AUDIT_ARCH value embedded in the program
// prologue are both specific to exactly one architecture.
package arch

import (
	"fmt"
	"runtime"
)

// Arch identifies a target architecture and ABI.
type Arch string

const (
	AMD64 Arch = "amd64"
	ARM64 Arch = "arm64"
	I386  Arch = "i386"
)

// AUDIT_ARCH_* values from the kernel's audit.h. The seccomp_data.arch
// field carries one of these on every syscall entry; compiled programs
// verify it before looking at the syscall number so that a filter built
// for one ABI can never be evaluated against another one's numbering.
const (
	auditArchX86_64  uint32 = 0xc000003e
	auditArchAARCH64 uint32 = 0xc00000b7
	auditArchI386    uint32 = 0x40000003
)

var auditArch = map[Arch]uint32{
	AMD64: auditArchX86_64,
	ARM64: auditArchAARCH64,
	I386:  auditArchI386,
}

// Parse validates an architecture name given on the command line or in
// configuration.
func Parse(s string) (Arch, error) {
	a := Arch(s)
	if _, ok := auditArch[a]; !ok {
		return "", fmt.Errorf("unsupported architecture %q", s)
	}
	return a, nil
}

// Native returns the architecture of the running process.
func Native() (Arch, error) {
	switch runtime.GOARCH {
	case "amd64":
		return AMD64, nil
	case "arm64":
		return ARM64, nil
	case "386":
		return I386, nil
	}
	return "", fmt.Errorf("unsupported architecture %s", runtime.GOARCH)
}

// AuditArch returns the AUDIT_ARCH_* value compiled programs check
// against seccomp_data.arch.
func (a Arch) AuditArch() uint32 {
	return auditArch[a]
}

func (a Arch) String() string {
	return string(a)
}
