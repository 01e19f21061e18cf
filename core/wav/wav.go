package wav

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ankit-chaubey/smplinfo/core/riff"
)

// ErrTooLarge is returned when appending a sampler chunk would overflow the
// 32-bit container size.
var ErrTooLarge = errors.New("wav: container too large to append smpl")

// Wav is an open WAV file. Updates require the underlying stream to also
// implement io.Writer.
type Wav struct {
	rs        io.ReadSeeker
	container *riff.Container
}

// New validates the RIFF/WAVE header of rs.
func New(rs io.ReadSeeker) (*Wav, error) {
	c, err := riff.Open(rs)
	if err != nil {
		return nil, err
	}
	return &Wav{rs: rs, container: c}, nil
}

// Container exposes the chunk walker for the file.
func (w *Wav) Container() *riff.Container {
	return w.container
}

// SamplerChunk returns the file's sampler chunk, or nil if it has none.
func (w *Wav) SamplerChunk() (*SamplerChunk, error) {
	offset, ok, err := w.container.Locate(SamplerID)
	if err != nil || !ok {
		return nil, err
	}
	if _, err := w.rs.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("wav: seek smpl: %w", err)
	}
	c, err := ReadSamplerChunk(w.rs)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateSamplerChunk applies fn to the sampler chunk and writes it back.
//
// An existing chunk is overwritten in place, so no other chunk moves. When
// the file has no sampler chunk a default one is passed to fn, appended at
// the end of the stream, and the container size grown by SamplerChunkSize.
// If the stream ends on an odd offset a zero pad byte is written first and
// counted in the size. A failure part way through is not rolled back.
func (w *Wav) UpdateSamplerChunk(fn func(*SamplerChunk)) error {
	ws, ok := w.rs.(io.WriteSeeker)
	if !ok {
		return riff.ErrReadOnly
	}

	offset, found, err := w.container.Locate(SamplerID)
	if err != nil {
		return err
	}

	if found {
		if _, err := w.rs.Seek(offset, io.SeekStart); err != nil {
			return fmt.Errorf("wav: seek smpl: %w", err)
		}
		c, err := ReadSamplerChunk(w.rs)
		if err != nil {
			return err
		}
		fn(&c)

		if _, err := ws.Seek(offset, io.SeekStart); err != nil {
			return fmt.Errorf("wav: seek smpl: %w", err)
		}
		if _, err := ws.Write(c.Bytes()); err != nil {
			return fmt.Errorf("wav: rewrite smpl: %w", err)
		}
		return nil
	}

	c := DefaultSamplerChunk()
	fn(&c)

	oldSize := w.container.Size()
	end, err := ws.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("wav: seek end: %w", err)
	}
	pad := end & 1
	grow := uint64(pad) + SamplerChunkSize
	if uint64(oldSize)+grow > math.MaxUint32 {
		return fmt.Errorf("%w: size %d", ErrTooLarge, oldSize)
	}

	if pad == 1 {
		if _, err := ws.Write([]byte{0}); err != nil {
			return fmt.Errorf("wav: pad before smpl: %w", err)
		}
	}
	if _, err := ws.Write(c.Bytes()); err != nil {
		return fmt.Errorf("wav: append smpl: %w", err)
	}
	if err := w.container.SetSize(oldSize + uint32(grow)); err != nil {
		return fmt.Errorf("wav: smpl appended but container size not updated: %w", err)
	}
	return nil
}
