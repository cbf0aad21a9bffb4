// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package option

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/devicejail/devicejail/pkg/defaults"
	"github.com/devicejail/devicejail/pkg/logger"
)

const (
	KeyDebug = "debug"

	KeyLogLevel  = "log-level"
	KeyLogFormat = "log-format"

	KeyPolicyDir             = "policy-dir"
	KeyRegistryTable         = "registry-table"
	KeyTargetArch            = "arch"
	KeyDefaultAction         = "default-action"
	KeyIgnoreMissingSyscalls = "ignore-missing-syscalls"
)

// ReadAndSetFlags pulls the viper-backed keys into Config. Viper is the
// single source of truth so values can come from flags, environment or a
// config file interchangeably.
func ReadAndSetFlags() {
	Config.Debug = viper.GetBool(KeyDebug)
	Config.PolicyDir = viper.GetString(KeyPolicyDir)
	Config.RegistryTable = viper.GetString(KeyRegistryTable)
	Config.TargetArch = viper.GetString(KeyTargetArch)
	Config.DefaultAction = viper.GetString(KeyDefaultAction)
	Config.IgnoreMissingSyscalls = viper.GetBool(KeyIgnoreMissingSyscalls)

	logger.PopulateLogOpts(Config.LogOpts, viper.GetString(KeyLogLevel), viper.GetString(KeyLogFormat))
}

// AddFlags registers every configuration key on the given flag set.
func AddFlags(flags *pflag.FlagSet) {
	flags.BoolP(KeyDebug, "d", false, "Enable debug messages")

	flags.String(KeyLogLevel, "info", "Log level (trace, debug, info, warning, error, fatal, panic)")
	flags.String(KeyLogFormat, "text", "Log format (text, json)")

	flags.String(KeyPolicyDir, defaults.DefaultPolicyDir, "Directory searched for policy @include targets")
	flags.String(KeyRegistryTable, defaults.DefaultRegistryTable, "Device-kind to policy-file table")
	flags.String(KeyTargetArch, "", "Architecture to compile policies for (amd64, arm64, i386); defaults to the running process's")
	flags.String(KeyDefaultAction, "kill-process", "Action for syscalls the policy does not name (kill-process, kill-thread, trap, errno, log, allow)")
	flags.Bool(KeyIgnoreMissingSyscalls, false, "Drop rules naming syscalls absent on the target architecture instead of failing")
}
