// trace_logger.go - trace logger (C12)
//
// Emits a deterministic, frame-delimited record of sound-chip writes for
// round-trip verification after relocation. No original_source file is
// dedicated to this (SIDEmulator.cpp calls into a TraceLogger it assumes
// exists); the wire format here follows the pattern logFrameMarker/write
// calls in runEmulation imply: one frame marker per endFrame, one record
// per write in between.

package main

import (
	"bufio"
	"fmt"
	"os"
)

// TraceFormat selects the trace's on-disk representation.
type TraceFormat int

const (
	TraceFormatText TraceFormat = iota
	TraceFormatBinary
)

const traceFrameMarker = 0xFF // register value no real SID write ever uses as a marker byte alone

// TraceLogger writes a sequence of (register, value) writes delimited by
// frame markers to a file, in either text or binary form.
type TraceLogger struct {
	file   *os.File
	writer *bufio.Writer
	format TraceFormat
}

func newTraceLogger(path string, format TraceFormat) (*TraceLogger, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &IOError{Kind: CannotWrite, Path: path, Err: err}
	}
	return &TraceLogger{file: f, writer: bufio.NewWriter(f), format: format}, nil
}

func (t *TraceLogger) logWrite(reg, value byte) {
	if t.format == TraceFormatBinary {
		t.writer.Write([]byte{reg, value})
		return
	}
	fmt.Fprintf(t.writer, "%02X=%02X\n", reg, value)
}

func (t *TraceLogger) logFrameMarker() {
	if t.format == TraceFormatBinary {
		t.writer.Write([]byte{traceFrameMarker, traceFrameMarker})
		return
	}
	fmt.Fprintln(t.writer, "--frame--")
}

func (t *TraceLogger) close() error {
	t.writer.Flush()
	return t.file.Close()
}

// Trace is an in-memory, parsed form of a trace log: a sequence of frames,
// each an ordered list of (register, value) writes.
type Trace struct {
	Frames [][]RegisterWrite
}

// traceRecorder is used directly by the relocator's verification step: it
// taps an Emulator's OnWrite/OnFrameEnd hooks to build a Trace in memory,
// avoiding a second file round-trip through TraceLogger.
type traceRecorder struct {
	current []RegisterWrite
	trace   Trace
}

func newTraceRecorder() *traceRecorder { return &traceRecorder{} }

func (r *traceRecorder) recordWrite(addr uint16, value byte) {
	if addr < sidBase || addr >= sidBase+sidWindowSize {
		return
	}
	r.current = append(r.current, RegisterWrite{Register: byte(addr - sidBase), Value: value})
}

func (r *traceRecorder) endFrame() {
	r.trace.Frames = append(r.trace.Frames, r.current)
	r.current = nil
}

// compareTraces returns true iff a and b contain the same number of frames
// and every corresponding frame has the same ordered sequence of writes.
func compareTraces(a, b Trace) bool {
	if len(a.Frames) != len(b.Frames) {
		return false
	}
	for i := range a.Frames {
		if len(a.Frames[i]) != len(b.Frames[i]) {
			return false
		}
		for j := range a.Frames[i] {
			if a.Frames[i][j] != b.Frames[i][j] {
				return false
			}
		}
	}
	return true
}
