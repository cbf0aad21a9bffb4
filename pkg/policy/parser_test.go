// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package policy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePolicy(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseBasic(t *testing.T) {
	dir := t.TempDir()
	path := writePolicy(t, dir, "base.policy", `
# event loop
read: 1
write: 1

ioctl: arg1 == FIONBIO || arg1 == 0x5401
mmap: arg2 != PROT_EXEC
madvise: arg2 & 0x4
`)

	pol, err := Parse(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, pol.Len())
	assert.Equal(t, []string{"ioctl", "madvise", "mmap", "read", "write"}, pol.Names())

	r, ok := pol.Rule("read")
	require.True(t, ok)
	assert.True(t, r.AllowAll)
	assert.Equal(t, 3, r.Line)

	r, ok = pol.Rule("ioctl")
	require.True(t, ok)
	require.Len(t, r.Clauses, 2)
	assert.Equal(t, Clause{Arg: 1, Op: OpEqual, Val: Value{Symbol: "FIONBIO"}}, r.Clauses[0])
	assert.Equal(t, Clause{Arg: 1, Op: OpEqual, Val: Value{Literal: 0x5401}}, r.Clauses[1])

	r, _ = pol.Rule("mmap")
	assert.Equal(t, OpNotEqual, r.Clauses[0].Op)
	r, _ = pol.Rule("madvise")
	assert.Equal(t, OpMaskSet, r.Clauses[0].Op)
}

func TestParseInOperator(t *testing.T) {
	dir := t.TempDir()
	path := writePolicy(t, dir, "in.policy", `
mmap: arg2 in ~PROT_EXEC
mprotect: arg2 in 0x3
`)

	pol, err := Parse(path, nil)
	require.NoError(t, err)

	r, ok := pol.Rule("mmap")
	require.True(t, ok)
	require.Len(t, r.Clauses, 1)
	assert.Equal(t, Clause{Arg: 2, Op: OpIn, Val: Value{Symbol: "PROT_EXEC", Complement: true}}, r.Clauses[0])
	assert.Equal(t, "mmap: arg2 in ~PROT_EXEC", r.String())

	r, _ = pol.Rule("mprotect")
	assert.Equal(t, Clause{Arg: 2, Op: OpIn, Val: Value{Literal: 0x3}}, r.Clauses[0])
}

func TestParseSyntaxErrors(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
		line    int
	}{
		{"missing colon", "read 1\n", 1},
		{"bad syscall name", "Read: 1\n", 1},
		{"empty expression", "read:\n", 1},
		{"bad arg index", "read: arg6 == 1\n", 1},
		{"bad operator", "read: arg0 >= 1\n", 1},
		{"bad value", "read: arg0 == +nope\n", 1},
		{"empty include", "read: 1\n@include\n", 2},
		{"duplicate rule", "read: 1\nwrite: 1\nread: arg0 == 1\n", 3},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := writePolicy(t, t.TempDir(), "bad.policy", tc.content)
			_, err := Parse(path, nil)
			var serr *SyntaxError
			require.ErrorAs(t, err, &serr, "error was %v", err)
			assert.Equal(t, path, serr.File)
			assert.Equal(t, tc.line, serr.Line)
		})
	}
}

func TestParseIncludeOverride(t *testing.T) {
	dir := t.TempDir()
	writePolicy(t, dir, "common.policy", `
read: 1
write: 1
ioctl: arg1 == 1
`)

	// The including file's rule wins even when it precedes the directive.
	path := writePolicy(t, dir, "device.policy", `
ioctl: arg1 == 2
@include common.policy
openat: 1
`)

	pol, err := Parse(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, pol.Len())

	r, ok := pol.Rule("ioctl")
	require.True(t, ok)
	require.Len(t, r.Clauses, 1)
	assert.Equal(t, uint64(2), r.Clauses[0].Val.Literal)
	assert.Equal(t, filepath.Join(dir, "device.policy"), r.File)

	r, _ = pol.Rule("read")
	assert.True(t, r.AllowAll)
}

func TestParseSiblingIncludeOrder(t *testing.T) {
	dir := t.TempDir()
	writePolicy(t, dir, "a.policy", "dup: arg0 == 1\nread: 1\n")
	writePolicy(t, dir, "b.policy", "dup: arg0 == 2\n")
	path := writePolicy(t, dir, "top.policy", "@include a.policy\n@include b.policy\n")

	pol, err := Parse(path, nil)
	require.NoError(t, err)

	// Later sibling includes override earlier ones.
	r, ok := pol.Rule("dup")
	require.True(t, ok)
	assert.Equal(t, uint64(2), r.Clauses[0].Val.Literal)
	_, ok = pol.Rule("read")
	assert.True(t, ok)
}

func TestParseIncludeSearchPaths(t *testing.T) {
	shared := t.TempDir()
	writePolicy(t, shared, "common.policy", "read: 1\n")
	dir := t.TempDir()
	path := writePolicy(t, dir, "device.policy", "@include common.policy\nwrite: 1\n")

	// Not found without search paths.
	_, err := Parse(path, nil)
	var nferr *IncludeNotFoundError
	require.ErrorAs(t, err, &nferr)
	assert.Equal(t, "common.policy", nferr.Target)
	assert.Equal(t, 1, nferr.Line)

	pol, err := Parse(path, []string{shared})
	require.NoError(t, err)
	assert.Equal(t, 2, pol.Len())
}

func TestParseIncludePrefersOwnDirectory(t *testing.T) {
	shared := t.TempDir()
	writePolicy(t, shared, "common.policy", "read: arg0 == 7\n")
	dir := t.TempDir()
	writePolicy(t, dir, "common.policy", "read: 1\n")
	path := writePolicy(t, dir, "device.policy", "@include common.policy\n")

	pol, err := Parse(path, []string{shared})
	require.NoError(t, err)
	r, ok := pol.Rule("read")
	require.True(t, ok)
	assert.True(t, r.AllowAll)
}

func TestParseIncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writePolicy(t, dir, "a.policy", "@include b.policy\n")
	writePolicy(t, dir, "b.policy", "@include a.policy\n")

	_, err := Parse(filepath.Join(dir, "a.policy"), nil)
	var cerr *IncludeCycleError
	require.ErrorAs(t, err, &cerr)
	assert.GreaterOrEqual(t, len(cerr.Chain), 3)

	writePolicy(t, dir, "self.policy", "@include self.policy\n")
	_, err = Parse(filepath.Join(dir, "self.policy"), nil)
	assert.ErrorAs(t, err, &cerr)
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.policy"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
