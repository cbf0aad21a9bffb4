// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

// Package worker is the spawn-path entry point: it takes a device kind
// through registry lookup, policy parsing, compilation and installation,
// in that order, and hands back the process's sandbox marker. Any failure
// along the way must abort worker startup; a worker that cannot be
// confined never gets guest input.
package worker

import (
	"fmt"

	"github.com/devicejail/devicejail/pkg/arch"
	"github.com/devicejail/devicejail/pkg/logger"
	"github.com/devicejail/devicejail/pkg/metrics"
	"github.com/devicejail/devicejail/pkg/policy"
	"github.com/devicejail/devicejail/pkg/registry"
	"github.com/devicejail/devicejail/pkg/seccomp"
)

var log = logger.GetLogger()

// Stage names the pipeline step a startup failure happened in.
type Stage string

const (
	StageLookup  Stage = "lookup"
	StageParse   Stage = "parse"
	StageCompile Stage = "compile"
	StageInstall Stage = "install"
)

// StartupError is the single structured error the spawning component
// receives when confining a worker fails.
type StartupError struct {
	Kind  string
	Stage Stage
	Err   error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("confining %s worker: %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// Prepare resolves and compiles the policy for a device kind without
// installing it. The monitor side uses this to validate the shipped
// policy set; workers use Confine.
func Prepare(reg *registry.Registry, kind string, target arch.Arch, opts seccomp.Options, searchPaths []string) (*seccomp.Program, error) {
	path, err := reg.Lookup(kind)
	if err != nil {
		return nil, &StartupError{Kind: kind, Stage: StageLookup, Err: err}
	}

	pol, err := policy.Parse(path, searchPaths)
	if err != nil {
		return nil, &StartupError{Kind: kind, Stage: StageParse, Err: err}
	}

	prog, err := seccomp.Compile(pol, target, opts)
	metrics.CompileInc(kind, err)
	if err != nil {
		return nil, &StartupError{Kind: kind, Stage: StageCompile, Err: err}
	}

	log.WithFields(map[string]interface{}{
		"kind":         kind,
		"policy":       path,
		"arch":         target,
		"rules":        pol.Len(),
		"instructions": prog.Len(),
	}).Debug("Compiled device policy")
	return prog, nil
}

// Confine runs the full lookup, parse, compile, install sequence in the
// calling process. On success the process is permanently restricted; the
// returned sandbox exposes no way back.
func Confine(reg *registry.Registry, kind string, target arch.Arch, opts seccomp.Options, searchPaths []string) (*seccomp.Sandbox, error) {
	prog, err := Prepare(reg, kind, target, opts, searchPaths)
	if err != nil {
		return nil, err
	}

	sb, err := seccomp.Install(prog)
	metrics.InstallInc(kind, err)
	if err != nil {
		return nil, &StartupError{Kind: kind, Stage: StageInstall, Err: err}
	}

	log.WithFields(map[string]interface{}{
		"kind":           kind,
		"arch":           sb.Arch(),
		"default-action": sb.DefaultAction(),
	}).Info("Installed seccomp filter")
	return sb, nil
}
