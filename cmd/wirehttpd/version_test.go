package main

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	t.Run("short", func(t *testing.T) {
		var out bytes.Buffer
		cmd := versionCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--short"})
		require.NoError(t, cmd.Execute())
		assert.Equal(t, version+"\n", out.String())
	})

	t.Run("full", func(t *testing.T) {
		var out bytes.Buffer
		cmd := versionCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{})
		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "Version:    "+version)
		assert.Contains(t, out.String(), runtime.GOOS+"/"+runtime.GOARCH)
	})
}

func TestServeCmdRejectsMissingEnvFile(t *testing.T) {
	cmd := serveCmd()
	cmd.SetArgs([]string{"--env-file", t.TempDir() + "/missing.env"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	assert.Error(t, cmd.Execute())
}
