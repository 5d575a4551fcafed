package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeAssembler writes a trivial shell script standing in for a real
// cross-assembler: it copies its source argument to the path given after
// -o, so Assemble's plumbing can be exercised without a real 6502 assembler.
func fakeAssembler(t *testing.T, succeed bool) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fakeasm.sh")
	script := "#!/bin/sh\ncp \"$1\" \"$3\"\n"
	if !succeed {
		script = "#!/bin/sh\necho 'syntax error' >&2\nexit 1\n"
	}
	assert.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestAssemblerDriver_Assemble_SucceedsAndProducesOutput(t *testing.T) {
	tempDir := t.TempDir()
	srcPath := filepath.Join(tempDir, "tune.asm")
	assert.NoError(t, os.WriteFile(srcPath, []byte("* = $C000\n"), 0o644))
	outPath := filepath.Join(tempDir, "tune.prg")

	driver := newAssemblerDriver(fakeAssembler(t, true))
	err := driver.Assemble(srcPath, outPath, tempDir)
	assert.NoError(t, err)

	out, err := os.ReadFile(outPath)
	assert.NoError(t, err)
	assert.Equal(t, "* = $C000\n", string(out))
}

func TestAssemblerDriver_Assemble_FailurePointsAtLogFile(t *testing.T) {
	tempDir := t.TempDir()
	srcPath := filepath.Join(tempDir, "tune.asm")
	assert.NoError(t, os.WriteFile(srcPath, []byte("bad source"), 0o644))
	outPath := filepath.Join(tempDir, "tune.prg")

	driver := newAssemblerDriver(fakeAssembler(t, false))
	err := driver.Assemble(srcPath, outPath, tempDir)
	assert.Error(t, err)

	relErr, ok := err.(*RelocationError)
	assert.True(t, ok, "expected a *RelocationError")
	assert.Equal(t, AssemblerFailed, relErr.Kind)

	logPath := filepath.Join(tempDir, "tune_asm.log")
	logContent, readErr := os.ReadFile(logPath)
	assert.NoError(t, readErr)
	assert.Contains(t, string(logContent), "syntax error")
}
