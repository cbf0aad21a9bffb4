// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package arch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Arch
	}{
		{"amd64", AMD64},
		{"arm64", ARM64},
		{"i386", I386},
	} {
		got, err := Parse(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	for _, in := range []string{"", "x86_64", "aarch64", "riscv64", "AMD64"} {
		_, err := Parse(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestAuditArch(t *testing.T) {
	assert.Equal(t, uint32(0xc000003e), AMD64.AuditArch())
	assert.Equal(t, uint32(0xc00000b7), ARM64.AuditArch())
	assert.Equal(t, uint32(0x40000003), I386.AuditArch())
}

func TestNative(t *testing.T) {
	a, err := Native()
	require.NoError(t, err)
	assert.NotZero(t, a.AuditArch())
}
