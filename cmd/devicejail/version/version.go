// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package version

import (
	"github.com/spf13/cobra"

	"github.com/devicejail/devicejail/pkg/version"
)

func New() *cobra.Command {
	var build bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("devicejail version: %s\n", version.Version)
			if build {
				cmd.Printf("build info: %s\n", version.ReadBuildInfo())
			}
		},
	}

	cmd.Flags().BoolVar(&build, "build", false, "Show full build information")
	return cmd
}
