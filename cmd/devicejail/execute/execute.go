// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package execute

import (
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/devicejail/devicejail/cmd/devicejail/common"
	"github.com/devicejail/devicejail/pkg/arch"
	"github.com/devicejail/devicejail/pkg/worker"
)

// New returns a command that confines the current process under a device
// kind's policy and then execs the given program. This is how a VMM
// launches a sandboxed worker; it is also useful for poking at a policy
// from a shell. The filter survives the exec, so the program must be
// covered by the policy or it will be killed on its first stray syscall.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "execute <kind> -- <program> [args]...",
		Short: "Install a device kind's filter, then exec a program under it",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, argv := args[0], args[1:]

			reg, err := common.LoadRegistry()
			if err != nil {
				return err
			}
			opts, err := common.CompileOptions()
			if err != nil {
				return err
			}
			// Installation only makes sense for the architecture we run
			// on; --arch is ignored here on purpose.
			target, err := arch.Native()
			if err != nil {
				return err
			}

			path, err := exec.LookPath(argv[0])
			if err != nil {
				return err
			}

			if _, err := worker.Confine(reg, kind, target, opts, common.SearchPaths()); err != nil {
				return err
			}
			return unix.Exec(path, argv, os.Environ())
		},
	}
}
