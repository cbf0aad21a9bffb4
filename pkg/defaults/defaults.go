// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package defaults

const (
	// DefaultPolicyDir is where the versioned policy set ships.
	DefaultPolicyDir = "/usr/share/devicejail/policies"

	// DefaultRegistryTable is the device-kind to policy-file table.
	DefaultRegistryTable = DefaultPolicyDir + "/devices.yaml"
)
