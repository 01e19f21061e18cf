// Package wavtest builds synthetic WAV files for tests.
package wavtest

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// Chunk is a top-level chunk to place in a synthetic file.
type Chunk struct {
	ID   string
	Data []byte
}

// Fmt returns a 16-byte PCM "fmt " chunk for mono 44.1kHz 16-bit audio.
func Fmt() Chunk {
	data := make([]byte, 16)
	binary.LittleEndian.PutUint16(data[0:2], 1)
	binary.LittleEndian.PutUint16(data[2:4], 1)
	binary.LittleEndian.PutUint32(data[4:8], 44100)
	binary.LittleEndian.PutUint32(data[8:12], 88200)
	binary.LittleEndian.PutUint16(data[12:14], 2)
	binary.LittleEndian.PutUint16(data[14:16], 16)
	return Chunk{ID: "fmt ", Data: data}
}

// Data returns a "data" chunk of n zero bytes.
func Data(n int) Chunk {
	return Chunk{ID: "data", Data: make([]byte, n)}
}

// Smpl returns a sampler chunk payload with the given unity note and
// manufacturer, plus extra trailing bytes standing in for loop records.
func Smpl(note byte, extra int) Chunk {
	data := make([]byte, 36+extra)
	binary.LittleEndian.PutUint32(data[0:4], 0x01000041)
	binary.LittleEndian.PutUint32(data[8:12], 22675)
	data[12] = note
	return Chunk{ID: "smpl", Data: data}
}

// Build assembles a RIFF/WAVE file, padding odd chunks.
func Build(chunks ...Chunk) []byte {
	var body bytes.Buffer
	for _, c := range chunks {
		body.WriteString(c.ID)
		_ = binary.Write(&body, binary.LittleEndian, uint32(len(c.Data)))
		body.Write(c.Data)
		if len(c.Data)%2 != 0 {
			body.WriteByte(0)
		}
	}

	var out bytes.Buffer
	out.WriteString("RIFF")
	_ = binary.Write(&out, binary.LittleEndian, uint32(body.Len()+4))
	out.WriteString("WAVE")
	out.Write(body.Bytes())
	return out.Bytes()
}

// Basic returns a minimal valid file without a sampler chunk.
func Basic() []byte {
	return Build(Fmt(), Data(64))
}

// Buffer is an in-memory io.ReadWriteSeeker.
type Buffer struct {
	data []byte
	pos  int64
}

// NewBuffer returns a Buffer holding a copy of b.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{data: append([]byte(nil), b...)}
}

// Bytes returns the current contents.
func (b *Buffer) Bytes() []byte {
	return b.data
}

func (b *Buffer) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += int64(n)
	return n, nil
}

func (b *Buffer) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if end > int64(len(b.data)) {
		grown := make([]byte, end)
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[b.pos:], p)
	b.pos = end
	return len(p), nil
}

func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = b.pos + offset
	case io.SeekEnd:
		abs = int64(len(b.data)) + offset
	default:
		return 0, errors.New("wavtest: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("wavtest: negative position")
	}
	b.pos = abs
	return abs, nil
}

// CountingReader counts bytes read through it.
type CountingReader struct {
	io.ReadSeeker
	N int
}

func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.ReadSeeker.Read(p)
	r.N += n
	return n, err
}
