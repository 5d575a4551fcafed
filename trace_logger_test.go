package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceLogger_TextFormatWritesRegisterValueAndFrameMarker(t *testing.T) {
	path := t.TempDir() + "/trace.txt"
	tl, err := newTraceLogger(path, TraceFormatText)
	assert.NoError(t, err)
	tl.logWrite(0x18, 0x0F)
	tl.logFrameMarker()
	assert.NoError(t, tl.close())

	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(content), "18=0F")
	assert.Contains(t, string(content), "--frame--")
}

func TestTraceLogger_BinaryFormatWritesRawBytesAndMarker(t *testing.T) {
	path := t.TempDir() + "/trace.bin"
	tl, err := newTraceLogger(path, TraceFormatBinary)
	assert.NoError(t, err)
	tl.logWrite(0x18, 0x0F)
	tl.logFrameMarker()
	assert.NoError(t, tl.close())

	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x18, 0x0F, traceFrameMarker, traceFrameMarker}, content)
}

func TestTraceRecorder_IgnoresWritesOutsideSIDWindow(t *testing.T) {
	rec := newTraceRecorder()
	rec.recordWrite(0x0400, 0x55)
	rec.recordWrite(sidBase+0x18, 0x0F)
	rec.endFrame()
	assert.Equal(t, 1, len(rec.trace.Frames[0]))
	assert.Equal(t, RegisterWrite{Register: 0x18, Value: 0x0F}, rec.trace.Frames[0][0])
}
