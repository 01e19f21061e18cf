// Package wav reads and updates the sampler ("smpl") chunk of WAV files.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ankit-chaubey/smplinfo/core/midi"
)

// ErrInvalidRecord is returned when a sampler chunk is short or carries the
// wrong id.
var ErrInvalidRecord = errors.New("wav: invalid smpl chunk")

// SamplerID is the chunk id of the sampler chunk.
const SamplerID = "smpl"

// SamplerChunkSize is the size of the fixed part of a sampler chunk,
// including its 8-byte chunk header. Loop records that may follow are left
// untouched.
const SamplerChunkSize = 44

// Byte offsets within the chunk, counted from the chunk id.
const (
	offSize          = 4
	offManufacturer  = 8
	offProduct       = 12
	offSamplePeriod  = 16
	offUnityNote     = 20
	offPitchFraction = 24
	offNumLoops      = 36

	// samplerPayloadSize is the value of the size field of a fresh chunk.
	samplerPayloadSize = SamplerChunkSize - 8
)

// SamplerChunk is the raw fixed-size head of a "smpl" chunk.
type SamplerChunk [SamplerChunkSize]byte

// DefaultSamplerChunk returns an empty sampler chunk with only its id and
// size field set.
func DefaultSamplerChunk() SamplerChunk {
	var c SamplerChunk
	copy(c[:4], SamplerID)
	binary.LittleEndian.PutUint32(c[offSize:], samplerPayloadSize)
	return c
}

// ReadSamplerChunk reads exactly SamplerChunkSize bytes from r and checks
// the chunk id.
func ReadSamplerChunk(r io.Reader) (SamplerChunk, error) {
	var c SamplerChunk
	if _, err := io.ReadFull(r, c[:]); err != nil {
		return SamplerChunk{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if string(c[:4]) != SamplerID {
		return SamplerChunk{}, fmt.Errorf("%w: id %q", ErrInvalidRecord, c[:4])
	}
	return c, nil
}

// Bytes returns the serialized chunk.
func (c *SamplerChunk) Bytes() []byte {
	return c[:]
}

// UnityNote returns the MIDI note at which the sample plays unpitched.
func (c *SamplerChunk) UnityNote() midi.Note {
	return midi.Note(c[offUnityNote])
}

// SetUnityNote sets the MIDI unity note.
func (c *SamplerChunk) SetUnityNote(n midi.Note) {
	c[offUnityNote] = byte(n)
}

// Manufacturer is the MMA manufacturer code, zero when unspecified.
func (c *SamplerChunk) Manufacturer() uint32 {
	return binary.LittleEndian.Uint32(c[offManufacturer:])
}

// Product is the manufacturer-specific product code.
func (c *SamplerChunk) Product() uint32 {
	return binary.LittleEndian.Uint32(c[offProduct:])
}

// SamplePeriod is the duration of one sample in nanoseconds.
func (c *SamplerChunk) SamplePeriod() uint32 {
	return binary.LittleEndian.Uint32(c[offSamplePeriod:])
}

// PitchFraction is the fine tuning above the unity note, as a fraction of a semitone scaled to 2^32.
func (c *SamplerChunk) PitchFraction() uint32 {
	return binary.LittleEndian.Uint32(c[offPitchFraction:])
}

// NumLoops is the number of loop records that follow the header fields.
func (c *SamplerChunk) NumLoops() uint32 {
	return binary.LittleEndian.Uint32(c[offNumLoops:])
}
