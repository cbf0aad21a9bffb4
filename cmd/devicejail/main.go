// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/devicejail/devicejail/cmd/devicejail/check"
	"github.com/devicejail/devicejail/cmd/devicejail/dump"
	"github.com/devicejail/devicejail/cmd/devicejail/execute"
	"github.com/devicejail/devicejail/cmd/devicejail/resolve"
	"github.com/devicejail/devicejail/cmd/devicejail/version"
	"github.com/devicejail/devicejail/pkg/logger"
	"github.com/devicejail/devicejail/pkg/option"
)

func main() {
	if err := New().Execute(); err != nil {
		os.Exit(1)
	}
}

func New() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "devicejail",
		Short:        "Syscall-filter sandboxes for VMM device workers",
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Help()
		},
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			option.ReadAndSetFlags()
			return logger.SetupLogging(option.Config.LogOpts, option.Config.Debug)
		},
	}
	rootCmd.SetOut(os.Stdout)

	rootCmd.AddCommand(
		check.New(),
		dump.New(),
		resolve.New(),
		execute.New(),
		version.New(),
	)

	flags := rootCmd.PersistentFlags()
	option.AddFlags(flags)
	viper.BindPFlags(flags)
	return rootCmd
}
