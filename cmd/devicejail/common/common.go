// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

// Package common holds the glue every subcommand needs to turn the
// global configuration into compiler inputs.
package common

import (
	"github.com/devicejail/devicejail/pkg/arch"
	"github.com/devicejail/devicejail/pkg/option"
	"github.com/devicejail/devicejail/pkg/registry"
	"github.com/devicejail/devicejail/pkg/seccomp"
)

// Target returns the architecture to compile for, falling back to the
// running process's when --arch is unset.
func Target() (arch.Arch, error) {
	if option.Config.TargetArch != "" {
		return arch.Parse(option.Config.TargetArch)
	}
	return arch.Native()
}

// CompileOptions builds seccomp compiler options from the configuration.
func CompileOptions() (seccomp.Options, error) {
	action, err := seccomp.ParseAction(option.Config.DefaultAction)
	if err != nil {
		return seccomp.Options{}, err
	}
	return seccomp.Options{
		DefaultAction:         action,
		IgnoreMissingSyscalls: option.Config.IgnoreMissingSyscalls,
	}, nil
}

// LoadRegistry reads the configured device-kind table.
func LoadRegistry() (*registry.Registry, error) {
	return registry.LoadFile(option.Config.RegistryTable)
}

// SearchPaths returns the @include resolution path.
func SearchPaths() []string {
	return []string{option.Config.PolicyDir}
}
