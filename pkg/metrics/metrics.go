// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

// Package metrics exposes counters for the policy compilation and sandbox
// installation paths. The embedding monitor process decides where the
// registry is served from; workers only increment.
package metrics

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const MetricsNamespace = "devicejail"

var (
	PolicyCompileTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "policy_compile_total",
		Help:      "Policy parse and compile attempts by device kind and outcome.",
	}, []string{"kind", "result", "error_type"})

	SandboxInstallTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "sandbox_install_total",
		Help:      "Seccomp filter installation attempts by device kind and outcome.",
	}, []string{"kind", "result", "error_type"})
)

func InitMetrics(registry *prometheus.Registry) {
	registry.MustRegister(PolicyCompileTotal)
	registry.MustRegister(SandboxInstallTotal)
}

// errorType renders a stable label for the error's root cause type.
func errorType(err error) string {
	if err == nil {
		return ""
	}
	return strings.ReplaceAll(fmt.Sprintf("%T", errors.Cause(err)), "*", "")
}

func result(err error) string {
	if err == nil {
		return "ok"
	}
	return "error"
}

func CompileInc(kind string, err error) {
	PolicyCompileTotal.WithLabelValues(kind, result(err), errorType(err)).Inc()
}

func InstallInc(kind string, err error) {
	SandboxInstallTotal.WithLabelValues(kind, result(err), errorType(err)).Inc()
}
