package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareTraces_IdenticalFramesMatch(t *testing.T) {
	a := Trace{Frames: [][]RegisterWrite{{{Register: 0x18, Value: 0x0F}}}}
	b := Trace{Frames: [][]RegisterWrite{{{Register: 0x18, Value: 0x0F}}}}
	assert.True(t, compareTraces(a, b))
}

func TestCompareTraces_DifferingFrameCountMismatches(t *testing.T) {
	a := Trace{Frames: [][]RegisterWrite{{{Register: 0x18, Value: 0x0F}}}}
	b := Trace{Frames: [][]RegisterWrite{}}
	assert.False(t, compareTraces(a, b))
}

func TestCompareTraces_DifferingValueMismatches(t *testing.T) {
	a := Trace{Frames: [][]RegisterWrite{{{Register: 0x18, Value: 0x0F}}}}
	b := Trace{Frames: [][]RegisterWrite{{{Register: 0x18, Value: 0x00}}}}
	assert.False(t, compareTraces(a, b))
}

func TestRenderTraceText_FormatsRegisterValuePairs(t *testing.T) {
	tr := Trace{Frames: [][]RegisterWrite{{{Register: 0x18, Value: 0x0F}, {Register: 0x04, Value: 0x21}}}}
	lines := renderTraceText(tr)
	assert.Equal(t, []string{"18=0F 04=21"}, lines)
}

func TestWriteDiffReport_IdenticalTracesReportMatchTrue(t *testing.T) {
	path := t.TempDir() + "/diff.txt"
	tr := Trace{Frames: [][]RegisterWrite{{{Register: 0x18, Value: 0x0F}}}}
	match, err := writeDiffReport(path, tr, tr)
	assert.NoError(t, err)
	assert.True(t, match)
	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(content), "identical")
}

func TestWriteDiffReport_DivergingTracesReportMatchFalseWithDiff(t *testing.T) {
	path := t.TempDir() + "/diff.txt"
	orig := Trace{Frames: [][]RegisterWrite{{{Register: 0x18, Value: 0x0F}}}}
	reloc := Trace{Frames: [][]RegisterWrite{{{Register: 0x18, Value: 0x00}}}}
	match, err := writeDiffReport(path, orig, reloc)
	assert.NoError(t, err)
	assert.False(t, match)
	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(content), "18=0F")
	assert.Contains(t, string(content), "18=00")
}
