// assembler_driver.go - cross-assembler driver (C14)
//
// Invokes an external 6502 cross-assembler as a subprocess, capturing its
// combined stdout/stderr to a log file next to the generated source.
// Grounded on RelocationUtils.cpp's assembleAsmToPrg, which shells out to
// KickAssembler the same way; generalized to an arbitrary assembler path
// supplied by the caller since this tool never bundles one itself.

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// AssemblerDriver invokes an external cross-assembler binary.
type AssemblerDriver struct {
	path string // path to the assembler executable, e.g. KickAssembler's jar wrapper
}

func newAssemblerDriver(path string) *AssemblerDriver {
	return &AssemblerDriver{path: path}
}

// Assemble runs the assembler against sourcePath, writing its program
// output to outputPath and its combined stdout/stderr to a log file named
// after sourcePath's basename.
func (a *AssemblerDriver) Assemble(sourcePath, outputPath, tempDir string) error {
	basename := filepath.Base(sourcePath)
	ext := filepath.Ext(basename)
	basename = basename[:len(basename)-len(ext)]
	logPath := filepath.Join(tempDir, basename+"_asm.log")

	logFile, err := os.Create(logPath)
	if err != nil {
		return &IOError{Kind: CannotWrite, Path: logPath, Err: err}
	}
	defer logFile.Close()

	cmd := exec.Command(a.path, sourcePath, "-o", outputPath)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Run(); err != nil {
		return newRelocationError(AssemblerFailed, fmt.Sprintf("%s: see %s", err, logPath), logPath)
	}
	return nil
}
