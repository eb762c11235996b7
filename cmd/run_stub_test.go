//go:build !cgo || !rpi

package cmd

import (
	"testing"

	"github.com/bnema/eglpi/internal/egl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFailsWithoutVideoCore(t *testing.T) {
	_, err := executeCommand(t, "--config", tempConfig(t, ""), "run")
	require.Error(t, err)
	assert.ErrorIs(t, err, egl.ErrBootstrap)

	var berr *egl.BootstrapError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, egl.StepGetDisplay, berr.Step)
}
