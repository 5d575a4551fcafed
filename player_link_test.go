package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkVisualiser_UnknownStubNameErrors(t *testing.T) {
	shadow := newShadowFinder()
	_, _, err := LinkVisualiser("nonexistent-stub", 0xD000, shadow)
	assert.Error(t, err)
}

func TestLinkVisualiser_NoShadowRegisterDegeneratesToRTS(t *testing.T) {
	shadow := newShadowFinder() // no writes recorded, no shadow register found
	code, entry, err := LinkVisualiser("raster-poll", 0xD000, shadow)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xD000), entry)
	assert.Equal(t, []byte{0x60}, code)
}

func TestLinkVisualiser_PatchesShadowAddressIntoLDAOperand(t *testing.T) {
	mem := newMemoryImage()
	shadow := newShadowFinder()
	playFrames(shadow, mem, 0x0B, shadowWarmupFrames+shadowMinSamples+5)
	shadow.analyzeResults(shadowDefaultReliability)

	code, entry, err := LinkVisualiser("raster-poll", 0xD000, shadow)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xD000), entry)
	assert.Equal(t, byte(0xAD), code[0]) // LDA absolute opcode preserved
	gotAddr := uint16(code[1]) | uint16(code[2])<<8
	assert.Equal(t, shadow.ShadowRegisterFor(0x0B), gotAddr)
	assert.Equal(t, byte(0x60), code[3]) // trailing RTS preserved
}
