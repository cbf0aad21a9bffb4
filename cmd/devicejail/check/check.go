// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package check

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devicejail/devicejail/cmd/devicejail/common"
	"github.com/devicejail/devicejail/pkg/worker"
)

// New returns a command that compiles policies without installing them,
// so a broken policy set is caught at build or deploy time rather than
// at worker spawn.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "check [kind]...",
		Short: "Compile registry policies and report failures",
		Long: `Compile the policy of every given device kind (or of every kind in
the registry) for the target architecture. Exits non-zero if any policy
fails to parse or compile.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := common.LoadRegistry()
			if err != nil {
				return err
			}
			target, err := common.Target()
			if err != nil {
				return err
			}
			opts, err := common.CompileOptions()
			if err != nil {
				return err
			}

			kinds := args
			if len(kinds) == 0 {
				kinds = reg.Kinds()
			}

			failed := 0
			for _, kind := range kinds {
				prog, err := worker.Prepare(reg, kind, target, opts, common.SearchPaths())
				if err != nil {
					failed++
					cmd.PrintErrf("%s: %v\n", kind, err)
					continue
				}
				cmd.Printf("%s: ok (%d instructions, %s)\n", kind, prog.Len(), target)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d policies failed", failed, len(kinds))
			}
			return nil
		},
	}
}
