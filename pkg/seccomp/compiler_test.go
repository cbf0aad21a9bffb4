// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package seccomp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicejail/devicejail/pkg/arch"
	"github.com/devicejail/devicejail/pkg/policy"
	"github.com/devicejail/devicejail/pkg/symtab"
)

func mustPolicy(t *testing.T, content string) *policy.Policy {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.policy")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	pol, err := policy.Parse(path, nil)
	require.NoError(t, err)
	return pol
}

func mustCompile(t *testing.T, content string, target arch.Arch, opts Options) *Program {
	t.Helper()
	prog, err := Compile(mustPolicy(t, content), target, opts)
	require.NoError(t, err)
	return prog
}

func simulate(t *testing.T, p *Program, nr int32, args [6]uint64) Action {
	t.Helper()
	act, err := p.Simulate(Data{NR: nr, Arch: p.Arch().AuditArch(), Args: args})
	require.NoError(t, err)
	return act
}

// amd64 numbers used below: read=0, close=3, ioctl=16, fcntl=72.

func TestCompileAllowAndDefault(t *testing.T) {
	prog := mustCompile(t, "read: 1\nclose: 1\n", arch.AMD64, Options{DefaultAction: ActionKillProcess})

	assert.Equal(t, ActionAllow, simulate(t, prog, 0, [6]uint64{}))
	assert.Equal(t, ActionAllow, simulate(t, prog, 3, [6]uint64{}))
	assert.Equal(t, ActionKillProcess, simulate(t, prog, 16, [6]uint64{}))
	assert.Equal(t, ActionKillProcess, simulate(t, prog, 9999, [6]uint64{}))
}

func TestCompileForeignArchHitsDefault(t *testing.T) {
	prog := mustCompile(t, "read: 1\n", arch.AMD64, Options{DefaultAction: ActionKillProcess})

	// read is 63 on arm64 and 0 on amd64. A filter must never interpret
	// another ABI's numbering, no matter what the number is.
	act, err := prog.Simulate(Data{NR: 0, Arch: arch.ARM64.AuditArch()})
	require.NoError(t, err)
	assert.Equal(t, ActionKillProcess, act)
	act, err = prog.Simulate(Data{NR: 63, Arch: arch.ARM64.AuditArch()})
	require.NoError(t, err)
	assert.Equal(t, ActionKillProcess, act)
}

func TestCompileArgEquality(t *testing.T) {
	prog := mustCompile(t, "fcntl: arg1 == F_GETFL || arg1 == F_SETFL\n", arch.AMD64,
		Options{DefaultAction: ActionKillProcess})

	getfl, err := symtab.Resolve("F_GETFL", arch.AMD64)
	require.NoError(t, err)
	setfl, err := symtab.Resolve("F_SETFL", arch.AMD64)
	require.NoError(t, err)

	assert.Equal(t, ActionAllow, simulate(t, prog, 72, [6]uint64{0, getfl}))
	assert.Equal(t, ActionAllow, simulate(t, prog, 72, [6]uint64{0, setfl}))
	assert.Equal(t, ActionKillProcess, simulate(t, prog, 72, [6]uint64{0, 0xffff}))
	// The value must match in full 64-bit width, not just the low word.
	assert.Equal(t, ActionKillProcess, simulate(t, prog, 72, [6]uint64{0, getfl | 1<<32}))
}

func TestCompileWideLiteral(t *testing.T) {
	prog := mustCompile(t, "read: arg2 == 0x1234567800000001\n", arch.AMD64,
		Options{DefaultAction: ActionKillProcess})

	assert.Equal(t, ActionAllow, simulate(t, prog, 0, [6]uint64{0, 0, 0x1234567800000001}))
	assert.Equal(t, ActionKillProcess, simulate(t, prog, 0, [6]uint64{0, 0, 0x1}))
	assert.Equal(t, ActionKillProcess, simulate(t, prog, 0, [6]uint64{0, 0, 0x1234567800000000}))
}

func TestCompileNotEqual(t *testing.T) {
	prog := mustCompile(t, "mmap: arg2 != PROT_EXEC\n", arch.AMD64,
		Options{DefaultAction: ActionKillProcess})

	// mmap is 9 on amd64; PROT_EXEC is 0x4.
	assert.Equal(t, ActionKillProcess, simulate(t, prog, 9, [6]uint64{0, 0, 0x4}))
	assert.Equal(t, ActionAllow, simulate(t, prog, 9, [6]uint64{0, 0, 0x3}))
	assert.Equal(t, ActionAllow, simulate(t, prog, 9, [6]uint64{0, 0, 0}))
	// Differing only in the high half still counts as unequal.
	assert.Equal(t, ActionAllow, simulate(t, prog, 9, [6]uint64{0, 0, 0x4 | 1<<32}))
}

func TestCompileMask(t *testing.T) {
	prog := mustCompile(t, "ioctl: arg1 & 0x4\n", arch.AMD64,
		Options{DefaultAction: ActionKillProcess})

	assert.Equal(t, ActionAllow, simulate(t, prog, 16, [6]uint64{0, 0x4}))
	assert.Equal(t, ActionAllow, simulate(t, prog, 16, [6]uint64{0, 0x7}))
	assert.Equal(t, ActionKillProcess, simulate(t, prog, 16, [6]uint64{0, 0x3}))

	// All mask bits must be present, including high-half ones.
	wide := mustCompile(t, "ioctl: arg1 & 0x100000004\n", arch.AMD64,
		Options{DefaultAction: ActionKillProcess})
	assert.Equal(t, ActionAllow, simulate(t, wide, 16, [6]uint64{0, 0x100000004}))
	assert.Equal(t, ActionKillProcess, simulate(t, wide, 16, [6]uint64{0, 0x4}))
	assert.Equal(t, ActionKillProcess, simulate(t, wide, 16, [6]uint64{0, 0x100000000}))
}

func TestCompileIn(t *testing.T) {
	// "in ~PROT_EXEC" must reject every prot combination carrying the
	// exec bit, not just prot == PROT_EXEC.
	prog := mustCompile(t, "mmap: arg2 in ~PROT_EXEC\n", arch.AMD64,
		Options{DefaultAction: ActionKillProcess})

	assert.Equal(t, ActionAllow, simulate(t, prog, 9, [6]uint64{0, 0, 0x0}))
	assert.Equal(t, ActionAllow, simulate(t, prog, 9, [6]uint64{0, 0, 0x3}))
	assert.Equal(t, ActionKillProcess, simulate(t, prog, 9, [6]uint64{0, 0, 0x4}))
	assert.Equal(t, ActionKillProcess, simulate(t, prog, 9, [6]uint64{0, 0, 0x5}))
	assert.Equal(t, ActionKillProcess, simulate(t, prog, 9, [6]uint64{0, 0, 0x7}))
	// The complement is 64-bit wide, so high bits are inside the mask.
	assert.Equal(t, ActionAllow, simulate(t, prog, 9, [6]uint64{0, 0, 1 << 32}))

	// A plain mask bounds both halves.
	narrow := mustCompile(t, "mprotect: arg2 in 0x3\n", arch.AMD64,
		Options{DefaultAction: ActionKillProcess})
	assert.Equal(t, ActionAllow, simulate(t, narrow, 10, [6]uint64{0, 0, 0x3}))
	assert.Equal(t, ActionKillProcess, simulate(t, narrow, 10, [6]uint64{0, 0, 0x4}))
	assert.Equal(t, ActionKillProcess, simulate(t, narrow, 10, [6]uint64{0, 0, 1 << 32}))
}

func TestCompileIncludeOverlay(t *testing.T) {
	// The merged result of a base policy and an overlay must behave as
	// one filter: inherited rules enforce their argument constraints,
	// anything else hits the default action.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "common.policy"),
		[]byte("socket: arg0 == AF_UNIX\nread: 1\n"), 0o644))
	path := filepath.Join(dir, "device.policy")
	require.NoError(t, os.WriteFile(path,
		[]byte("@include common.policy\nclose: 1\n"), 0o644))

	pol, err := policy.Parse(path, nil)
	require.NoError(t, err)
	prog, err := Compile(pol, arch.AMD64, Options{DefaultAction: ActionKillProcess})
	require.NoError(t, err)

	afUnix, err := symtab.Resolve("AF_UNIX", arch.AMD64)
	require.NoError(t, err)
	afInet, err := symtab.Resolve("AF_INET", arch.AMD64)
	require.NoError(t, err)

	// socket is 41 on amd64.
	assert.Equal(t, ActionAllow, simulate(t, prog, 41, [6]uint64{afUnix}))
	assert.Equal(t, ActionKillProcess, simulate(t, prog, 41, [6]uint64{afInet}))
	assert.Equal(t, ActionAllow, simulate(t, prog, 0, [6]uint64{}))
	assert.Equal(t, ActionAllow, simulate(t, prog, 3, [6]uint64{}))
	assert.Equal(t, ActionKillProcess, simulate(t, prog, 16, [6]uint64{}))
}

func TestCompileDeterministic(t *testing.T) {
	const content = `
close: 1
ioctl: arg1 == FIONBIO || arg1 == TCGETS
read: 1
mmap: arg2 != PROT_EXEC
`
	a := mustCompile(t, content, arch.AMD64, Options{DefaultAction: ActionKillProcess})
	b := mustCompile(t, content, arch.AMD64, Options{DefaultAction: ActionKillProcess})
	if diff := cmp.Diff(a.Bytes(), b.Bytes()); diff != "" {
		t.Fatalf("programs differ (-first +second):\n%s", diff)
	}
}

func TestCompilePerArchOutput(t *testing.T) {
	const content = "ioctl: arg1 == BLKGETSIZE64\n"
	amd := mustCompile(t, content, arch.AMD64, Options{DefaultAction: ActionKillProcess})
	i386 := mustCompile(t, content, arch.I386, Options{DefaultAction: ActionKillProcess})

	// Same source, different ABI: syscall number, AUDIT_ARCH and the
	// ioctl encoding all differ, so the programs must too.
	assert.NotEqual(t, amd.Bytes(), i386.Bytes())

	assert.Equal(t, ActionAllow, simulate(t, amd, 16, [6]uint64{0, 0x80081272}))
	assert.Equal(t, ActionAllow, simulate(t, i386, 54, [6]uint64{0, 0x80041272}))
	assert.Equal(t, ActionKillProcess, simulate(t, amd, 16, [6]uint64{0, 0x80041272}))
}

func TestCompileUnknownSyscall(t *testing.T) {
	_, err := Compile(mustPolicy(t, "oppen: 1\n"), arch.AMD64, Options{DefaultAction: ActionKillProcess})
	require.ErrorIs(t, err, symtab.ErrUnknownSyscall)
	assert.Contains(t, err.Error(), "test.policy:1")
}

func TestCompileUnknownConstant(t *testing.T) {
	_, err := Compile(mustPolicy(t, "ioctl: arg1 == O_BOGUS\n"), arch.AMD64, Options{DefaultAction: ActionKillProcess})
	require.ErrorIs(t, err, symtab.ErrUnknownConstant)
}

func TestCompileIgnoreMissingSyscalls(t *testing.T) {
	pol := mustPolicy(t, "open: 1\nread: 1\n")

	// open does not exist on arm64: hard error by default.
	_, err := Compile(pol, arch.ARM64, Options{DefaultAction: ActionKillProcess})
	require.ErrorIs(t, err, symtab.ErrUnknownSyscall)

	prog, err := Compile(pol, arch.ARM64, Options{DefaultAction: ActionKillProcess, IgnoreMissingSyscalls: true})
	require.NoError(t, err)
	assert.Equal(t, ActionAllow, simulate(t, prog, 63, [6]uint64{}))

	// Names unknown on every architecture are typos, never dropped.
	_, err = Compile(mustPolicy(t, "oppen: 1\n"), arch.ARM64,
		Options{DefaultAction: ActionKillProcess, IgnoreMissingSyscalls: true})
	require.ErrorIs(t, err, symtab.ErrUnknownSyscall)
}

func TestCompileDefaultActionErrno(t *testing.T) {
	prog := mustCompile(t, "read: 1\n", arch.AMD64, Options{DefaultAction: ActionErrno(1)})
	act := simulate(t, prog, 3, [6]uint64{})
	assert.Equal(t, ActionErrno(1), act)
	assert.Equal(t, "errno(1)", act.String())
}

func TestCompileRuleTooComplex(t *testing.T) {
	// Per-rule dispatch uses a short conditional jump over the rule body,
	// so a single rule cannot grow past 255 instructions.
	var sb strings.Builder
	sb.WriteString("ioctl: arg1 == 0")
	for i := 1; i < 100; i++ {
		fmt.Fprintf(&sb, " || arg1 == %d", i)
	}
	sb.WriteString("\n")
	_, err := Compile(mustPolicy(t, sb.String()), arch.AMD64, Options{DefaultAction: ActionKillProcess})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule too complex")
}

func TestCompileUnsupportedArch(t *testing.T) {
	_, err := Compile(mustPolicy(t, "read: 1\n"), arch.Arch("riscv64"), Options{DefaultAction: ActionKillProcess})
	require.Error(t, err)
}

func TestProgramBytesLen(t *testing.T) {
	prog := mustCompile(t, "read: 1\n", arch.AMD64, Options{DefaultAction: ActionKillProcess})
	assert.Equal(t, prog.Len()*8, len(prog.Bytes()))
	assert.Equal(t, prog.Len(), len(prog.Instructions()))
	assert.NotEmpty(t, prog.Disassemble())
	assert.Equal(t, arch.AMD64, prog.Arch())
	assert.Equal(t, ActionKillProcess, prog.DefaultAction())
}
