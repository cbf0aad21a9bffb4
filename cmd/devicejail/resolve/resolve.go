// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package resolve

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/devicejail/devicejail/cmd/devicejail/common"
	"github.com/devicejail/devicejail/pkg/symtab"
)

// New returns a command that looks names up in the symbol tables, the
// same way the compiler does. Handy when writing policies: it answers
// both "what number is this syscall here" and "what value does this
// constant expand to".
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <name>...",
		Short: "Resolve syscall names and constants for an architecture",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := common.Target()
			if err != nil {
				return err
			}

			var failed bool
			for _, name := range args {
				if nr, err := symtab.SyscallNumber(name, target); err == nil {
					cmd.Printf("%s: syscall %d (%s)\n", name, nr, target)
					continue
				} else if !errors.Is(err, symtab.ErrUnknownSyscall) {
					return err
				}
				val, err := symtab.Resolve(name, target)
				if err != nil {
					failed = true
					cmd.PrintErrf("%s: %v\n", name, err)
					continue
				}
				cmd.Printf("%s: 0x%x (%s)\n", name, val, target)
			}
			if failed {
				return errors.New("some names did not resolve")
			}
			return nil
		},
	}
}
