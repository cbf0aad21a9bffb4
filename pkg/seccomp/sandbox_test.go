// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package seccomp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicejail/devicejail/pkg/arch"
)

// resetConfined undoes the process-wide install marker so tests can
// exercise the once-only path repeatedly. Production code has no such
// hook on purpose.
func resetConfined(t *testing.T) {
	t.Helper()
	installMu.Lock()
	confined = false
	installMu.Unlock()
	t.Cleanup(func() {
		installMu.Lock()
		confined = false
		installMu.Unlock()
	})
}

func nativeProgram(t *testing.T) *Program {
	t.Helper()
	native, err := arch.Native()
	require.NoError(t, err)
	return mustCompile(t, "read: 1\n", native, Options{DefaultAction: ActionKillProcess})
}

func TestInstallOnce(t *testing.T) {
	resetConfined(t)
	prog := nativeProgram(t)

	loads := 0
	sb, err := installWith(prog, func(*Program) error { loads++; return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, loads)
	assert.Equal(t, prog.Arch(), sb.Arch())
	assert.Equal(t, ActionKillProcess, sb.DefaultAction())

	// The second attempt is rejected before touching the kernel.
	_, err = installWith(prog, func(*Program) error { loads++; return nil })
	assert.ErrorIs(t, err, ErrAlreadyInstalled)
	assert.Equal(t, 1, loads)
}

func TestInstallLoadFailure(t *testing.T) {
	resetConfined(t)
	prog := nativeProgram(t)

	boom := errors.New("boom")
	_, err := installWith(prog, func(*Program) error { return boom })
	require.ErrorIs(t, err, boom)

	// A failed load leaves the process unconfined, so a retry can work.
	_, err = installWith(prog, func(*Program) error { return nil })
	assert.NoError(t, err)
}

func TestInstallWrongArch(t *testing.T) {
	resetConfined(t)
	native, err := arch.Native()
	require.NoError(t, err)
	foreign := arch.AMD64
	if native == arch.AMD64 {
		foreign = arch.ARM64
	}

	prog := mustCompile(t, "read: 1\n", foreign, Options{DefaultAction: ActionKillProcess})
	_, err = installWith(prog, func(*Program) error { return nil })
	assert.ErrorIs(t, err, ErrInstallationRejected)
}
