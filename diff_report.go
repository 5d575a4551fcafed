// diff_report.go - relocation verification diff artifact (C17)
//
// Renders a unified diff between the original and relocated trace logs for
// a human to inspect when relocation verification reports a mismatch.
// Grounded on TraceLogger::compareTraceLogs's diffReport output in
// RelocationUtils.cpp; since this tool already holds both traces in
// memory as parsed Trace values, the report is built directly from those
// rather than re-reading the trace files from disk.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// renderTraceText renders a Trace as one text line per frame, using the
// same "REG=VALUE" pair format TraceLogger writes (one pair per line in the
// log file, space-separated on one line per frame here), so each diff line
// covers a whole frame.
func renderTraceText(t Trace) []string {
	lines := make([]string, 0, len(t.Frames))
	for _, frame := range t.Frames {
		parts := make([]string, len(frame))
		for i, w := range frame {
			parts[i] = fmt.Sprintf("%02X=%02X", w.Register, w.Value)
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return lines
}

// writeDiffReport writes a unified diff between two traces to path,
// returning whether the traces were identical.
func writeDiffReport(path string, original, relocated Trace) (bool, error) {
	match := compareTraces(original, relocated)

	diff := difflib.UnifiedDiff{
		A:        renderTraceText(original),
		B:        renderTraceText(relocated),
		FromFile: "original",
		ToFile:   "relocated",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return match, err
	}
	if text == "" {
		text = "traces are identical\n"
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return match, &IOError{Kind: CannotWrite, Path: path, Err: err}
	}
	return match, nil
}
