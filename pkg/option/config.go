// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package option

import "github.com/devicejail/devicejail/pkg/defaults"

// Config contains all the configuration used by devicejail.
var Config = config{
	// Initialize global defaults below.
	PolicyDir:     defaults.DefaultPolicyDir,
	RegistryTable: defaults.DefaultRegistryTable,
	DefaultAction: "kill-process",

	// LogOpts contains logger parameters
	LogOpts: make(map[string]string),
}

type config struct {
	Debug bool

	// PolicyDir is the search path for @include resolution.
	PolicyDir string

	// RegistryTable is the device-kind to policy-file table.
	RegistryTable string

	// TargetArch overrides the architecture policies are compiled for;
	// empty means the running process's architecture.
	TargetArch string

	// DefaultAction applies to syscalls a policy does not name.
	DefaultAction string

	// IgnoreMissingSyscalls drops rules for syscalls absent on the
	// target architecture instead of failing compilation.
	IgnoreMissingSyscalls bool

	LogOpts map[string]string
}
