// player_link.go - visualiser stub linker (C16)
//
// Builds a small built-in 6502 stub that the CLI appends after a program
// image so a host player has a routine to call besides the tune's own play
// routine, e.g. to poll shadow-register RAM for a raster-bar display.
// There is no original_source counterpart: PSID players traditionally
// leave this to the host frontend, but the expanded scope calls for one
// built-in stub. Grounded on RelocationUtils.cpp's header-rewrap pattern
// (new entry points computed as an offset from the original) and on the
// shadow-register map C10 produces, which is the only way to read SID
// state back since the chip's registers are write-only.

package main

import "fmt"

// raster-poll stub: a single LDA of the shadow register for SID register
// $0B (voice 2's control/waveform register, $D40B) followed by RTS if one
// was found, otherwise just RTS. Self-contained, no zero-page use.
var rasterPollStub = []byte{
	0xAD, 0x00, 0x00, // LDA shadowAddr       (patched below)
	0x60, // RTS
}

const rasterPollShadowOperandOffset = 1

// KnownVisualiserStubs is the set of built-in stub names the linker
// accepts.
var KnownVisualiserStubs = map[string]bool{"raster-poll": true}

// LinkVisualiser returns stubName's code, for the caller to append at
// programEnd, and its entry address (programEnd), or an error if the name
// is unknown. shadow is consulted for the raster-poll stub's backing
// address; if no shadow register was found for SID register $0B, the stub
// degenerates to an immediate RTS.
func LinkVisualiser(stubName string, programEnd uint16, shadow *ShadowFinder) ([]byte, uint16, error) {
	if !KnownVisualiserStubs[stubName] {
		return nil, 0, fmt.Errorf("unknown visualiser stub %q", stubName)
	}

	entry := programEnd
	code := append([]byte(nil), rasterPollStub...)

	shadowAddr := shadow.ShadowRegisterFor(0x0B)
	if shadowAddr == shadowNoAddress {
		code = []byte{0x60} // RTS only: nothing to poll
		return code, entry, nil
	}
	code[rasterPollShadowOperandOffset] = byte(shadowAddr & 0xFF)
	code[rasterPollShadowOperandOffset+1] = byte(shadowAddr >> 8)
	return code, entry, nil
}
