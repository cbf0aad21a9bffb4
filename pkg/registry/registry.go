// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

// Package registry maps device kinds to the policy file each worker runs
// under. The table is fixed at monitor startup and immutable afterwards;
// it is passed into the spawn path explicitly so tests can substitute
// their own tables.
package registry

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Registry is an immutable device-kind to policy-path table.
type Registry struct {
	policies map[string]string
}

// New builds a registry from an explicit table. The map is copied.
func New(policies map[string]string) *Registry {
	m := make(map[string]string, len(policies))
	for k, v := range policies {
		m[k] = v
	}
	return &Registry{policies: m}
}

// tableFile is the on-disk registry format, a versioned YAML document
// shipped alongside the policy files:
//
//	version: 1
//	policies:
//	  block: block_device.policy
//	  net: net_device.policy
type tableFile struct {
	Version  int               `yaml:"version"`
	Policies map[string]string `yaml:"policies"`
}

// LoadFile reads a registry table from disk.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry table: %w", err)
	}
	var tf tableFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tf); err != nil {
		return nil, fmt.Errorf("parsing registry table %s: %w", path, err)
	}
	if tf.Version != 1 {
		return nil, fmt.Errorf("registry table %s: unsupported version %d", path, tf.Version)
	}
	if len(tf.Policies) == 0 {
		return nil, fmt.Errorf("registry table %s: no policies", path)
	}
	return New(tf.Policies), nil
}

// Lookup returns the policy path for a device kind. An unregistered kind
// is a configuration error, caught at worker-spawn time before any guest
// input reaches the worker.
func (r *Registry) Lookup(kind string) (string, error) {
	path, ok := r.policies[kind]
	if !ok {
		return "", fmt.Errorf("no policy registered for device kind %q", kind)
	}
	return path, nil
}

// Kinds returns the registered device kinds, sorted.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.policies))
	for k := range r.policies {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
