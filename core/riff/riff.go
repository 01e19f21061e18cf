// Package riff walks the top-level chunks of a RIFF/WAVE container without
// loading chunk payloads.
package riff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Errors.
var (
	ErrNotAContainer = errors.New("riff: not a RIFF/WAVE container")
	ErrTruncated     = errors.New("riff: truncated chunk")
	ErrMalformed     = errors.New("riff: malformed chunk layout")
	ErrReadOnly      = errors.New("riff: stream is not writable")
)

const (
	// HeaderSize covers the "RIFF" id, the size field and the form type.
	HeaderSize = 12
	// ChunkHeaderSize covers a chunk id and its size field.
	ChunkHeaderSize = 8
	// SizeOffset is the position of the container's declared size.
	SizeOffset = 4

	riffID   = "RIFF"
	waveType = "WAVE"
)

// Chunk locates one top-level chunk. Offset points at the chunk id; Size
// is the declared payload length, excluding the header and pad byte.
type Chunk struct {
	ID     string
	Offset int64
	Size   uint32
}

// PayloadOffset returns the absolute position of the first payload byte.
func (c Chunk) PayloadOffset() int64 {
	return c.Offset + ChunkHeaderSize
}

// Container is an open RIFF/WAVE stream. It is not safe for concurrent use
// and takes no ownership of the underlying stream.
type Container struct {
	rs   io.ReadSeeker
	size uint32
}

// Open validates the container header of rs. Nothing past the 12-byte
// header is read.
func Open(rs io.ReadSeeker) (*Container, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("riff: seek header: %w", err)
	}

	var header [HeaderSize]byte
	if _, err := io.ReadFull(rs, header[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: short header", ErrNotAContainer)
		}
		return nil, fmt.Errorf("riff: read header: %w", err)
	}

	if string(header[0:4]) != riffID {
		return nil, fmt.Errorf("%w: id %q", ErrNotAContainer, header[0:4])
	}
	if string(header[8:12]) != waveType {
		return nil, fmt.Errorf("%w: form type %q", ErrNotAContainer, header[8:12])
	}

	return &Container{
		rs:   rs,
		size: binary.LittleEndian.Uint32(header[SizeOffset:8]),
	}, nil
}

// Size returns the declared container size as recorded at Open or by the
// last SetSize.
func (c *Container) Size() uint32 {
	return c.size
}

// Locate returns the offset of the first top-level chunk with the given id.
// The stream position is left undefined.
func (c *Container) Locate(id string) (int64, bool, error) {
	ch, ok, err := c.Find(id)
	if err != nil || !ok {
		return 0, false, err
	}
	return ch.Offset, true, nil
}

// Chunks lists every top-level chunk in file order.
func (c *Container) Chunks() ([]Chunk, error) {
	var chunks []Chunk
	err := c.walk(func(ch Chunk) bool {
		chunks = append(chunks, ch)
		return true
	})
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// Find is like Locate but returns the whole chunk descriptor.
func (c *Container) Find(id string) (Chunk, bool, error) {
	var found Chunk
	ok := false
	err := c.walk(func(ch Chunk) bool {
		if ch.ID == id {
			found, ok = ch, true
			return false
		}
		return true
	})
	if err != nil {
		return Chunk{}, false, err
	}
	return found, ok, nil
}

// ReadPayload loads the payload of ch into memory. A payload that extends
// past the end of the stream is ErrTruncated and is not allocated.
func (c *Container) ReadPayload(ch Chunk) ([]byte, error) {
	length, err := c.rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("riff: seek end: %w", err)
	}
	if ch.PayloadOffset()+int64(ch.Size) > length {
		return nil, fmt.Errorf("%w: %q payload of %d bytes at %d exceeds stream length %d",
			ErrTruncated, ch.ID, ch.Size, ch.PayloadOffset(), length)
	}
	if _, err := c.rs.Seek(ch.PayloadOffset(), io.SeekStart); err != nil {
		return nil, fmt.Errorf("riff: seek %q: %w", ch.ID, err)
	}
	data := make([]byte, ch.Size)
	if _, err := io.ReadFull(c.rs, data); err != nil {
		return nil, fmt.Errorf("%w: %q payload: %w", ErrTruncated, ch.ID, err)
	}
	return data, nil
}

// SetSize rewrites the declared container size.
func (c *Container) SetSize(size uint32) error {
	w, ok := c.rs.(io.Writer)
	if !ok {
		return ErrReadOnly
	}
	if _, err := c.rs.Seek(SizeOffset, io.SeekStart); err != nil {
		return fmt.Errorf("riff: seek size field: %w", err)
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], size)
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("riff: write size field: %w", err)
	}
	c.size = size
	return nil
}

// walk visits top-level chunks until fn returns false or the declared end
// of the container is reached. Chunks are padded to an even length.
func (c *Container) walk(fn func(Chunk) bool) error {
	end := int64(c.size) + ChunkHeaderSize
	offset := int64(HeaderSize)

	for offset < end {
		if offset+ChunkHeaderSize > end {
			return fmt.Errorf("%w: chunk header at %d crosses container end %d", ErrMalformed, offset, end)
		}
		if _, err := c.rs.Seek(offset, io.SeekStart); err != nil {
			return fmt.Errorf("riff: seek chunk at %d: %w", offset, err)
		}

		var header [ChunkHeaderSize]byte
		if _, err := io.ReadFull(c.rs, header[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("%w: at offset %d", ErrTruncated, offset)
			}
			return fmt.Errorf("riff: read chunk at %d: %w", offset, err)
		}

		ch := Chunk{
			ID:     string(header[0:4]),
			Offset: offset,
			Size:   binary.LittleEndian.Uint32(header[4:8]),
		}
		if !fn(ch) {
			return nil
		}

		// A missing pad byte after the final chunk is tolerated.
		pad := int64(ch.Size & 1)
		next := ch.PayloadOffset() + int64(ch.Size) + pad
		if next > end+pad {
			return fmt.Errorf("%w: chunk %q at %d overruns container end %d", ErrMalformed, ch.ID, offset, end)
		}
		offset = next
	}

	return nil
}
