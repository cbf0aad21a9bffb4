// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package dump

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devicejail/devicejail/cmd/devicejail/common"
	"github.com/devicejail/devicejail/pkg/policy"
	"github.com/devicejail/devicejail/pkg/seccomp"
)

// New returns a command that compiles a single policy file and prints
// the resulting filter, either as a disassembly or as the raw bytes the
// kernel would receive.
func New() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "dump <policy-file>",
		Short: "Compile a policy file and print the BPF filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := common.Target()
			if err != nil {
				return err
			}
			opts, err := common.CompileOptions()
			if err != nil {
				return err
			}

			pol, err := policy.Parse(args[0], common.SearchPaths())
			if err != nil {
				return err
			}
			prog, err := seccomp.Compile(pol, target, opts)
			if err != nil {
				return err
			}

			if raw {
				_, err := os.Stdout.Write(prog.Bytes())
				return err
			}
			cmd.Printf("# %s: %d rules, %d instructions, default %s\n",
				target, pol.Len(), prog.Len(), prog.DefaultAction())
			fmt.Fprint(cmd.OutOrStdout(), prog.Disassemble())
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Write the raw little-endian filter bytes instead of a disassembly")
	return cmd
}
