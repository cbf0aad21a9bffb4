// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package seccomp

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// loadFilter hands the assembled program to the kernel. NO_NEW_PRIVS is a
// precondition for installing a filter without CAP_SYS_ADMIN, and is the
// right posture for a device worker anyway. TSYNC extends the filter to
// any threads the runtime already started.
func loadFilter(prog *Program) error {
	if err := unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0); err != nil {
		return fmt.Errorf("%w: prctl(NO_NEW_PRIVS): %v", ErrInstallationRejected, err)
	}

	raw := prog.Instructions()
	filter := make([]unix.SockFilter, len(raw))
	for i, ins := range raw {
		filter[i] = unix.SockFilter{
			Code: ins.Op,
			Jt:   ins.Jt,
			Jf:   ins.Jf,
			K:    ins.K,
		}
	}
	fprog := unix.SockFprog{
		Len:    uint16(len(filter)),
		Filter: &filter[0],
	}

	_, _, errno := unix.Syscall(
		unix.SYS_SECCOMP,
		uintptr(unix.SECCOMP_SET_MODE_FILTER),
		uintptr(unix.SECCOMP_FILTER_FLAG_TSYNC),
		uintptr(unsafe.Pointer(&fprog)),
	)
	if errno != 0 {
		return fmt.Errorf("%w: seccomp(SET_MODE_FILTER): %v", ErrInstallationRejected, errno)
	}
	return nil
}
