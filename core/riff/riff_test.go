package riff

import (
	"bytes"
	"encoding/binary"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankit-chaubey/smplinfo/internal/wavtest"
)

func TestOpenValid(t *testing.T) {
	data := wavtest.Basic()

	c, err := Open(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, uint32(len(data)-8), c.Size())
}

func TestOpenNotAContainer(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", []byte("RIFF\x00\x00")},
		{"aiff", []byte("FORM\x04\x00\x00\x00AIFFCOMM")},
		{"avi", []byte("RIFF\x04\x00\x00\x00AVI LIST")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &wavtest.CountingReader{ReadSeeker: bytes.NewReader(tc.data)}
			_, err := Open(r)
			assert.ErrorIs(t, err, ErrNotAContainer)
			assert.LessOrEqual(t, r.N, HeaderSize, "read past the header")
		})
	}
}

func TestLocate(t *testing.T) {
	data := wavtest.Build(wavtest.Fmt(), wavtest.Chunk{ID: "odd!", Data: []byte{1, 2, 3}}, wavtest.Smpl(60, 0), wavtest.Data(10))

	c, err := Open(bytes.NewReader(data))
	require.NoError(t, err)

	// 12 header + 24 fmt + 12 padded odd chunk
	offset, ok, err := c.Locate("smpl")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(48), offset)
	assert.Equal(t, "smpl", string(data[offset:offset+4]))

	_, ok, err = c.Locate("cue ")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocateFirstMatch(t *testing.T) {
	data := wavtest.Build(wavtest.Fmt(), wavtest.Smpl(60, 0), wavtest.Smpl(61, 0))

	c, err := Open(bytes.NewReader(data))
	require.NoError(t, err)

	offset, ok, err := c.Locate("smpl")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(36), offset)
}

func TestChunks(t *testing.T) {
	data := wavtest.Build(wavtest.Fmt(), wavtest.Data(5))

	c, err := Open(bytes.NewReader(data))
	require.NoError(t, err)

	chunks, err := c.Chunks()
	require.NoError(t, err)
	assert.Equal(t, []Chunk{
		{ID: "fmt ", Offset: 12, Size: 16},
		{ID: "data", Offset: 36, Size: 5},
	}, chunks)
}

func TestTruncated(t *testing.T) {
	data := wavtest.Basic()
	// Declare more content than the stream holds.
	binary.LittleEndian.PutUint32(data[4:8], uint32(len(data)+100))

	c, err := Open(bytes.NewReader(data))
	require.NoError(t, err)

	_, _, err = c.Locate("smpl")
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestMalformedOverrun(t *testing.T) {
	data := wavtest.Build(wavtest.Fmt(), wavtest.Data(8))
	// Grow the data chunk's declared size past the container end.
	binary.LittleEndian.PutUint32(data[40:44], 4096)

	c, err := Open(bytes.NewReader(data))
	require.NoError(t, err)

	_, _, err = c.Locate("smpl")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestMalformedHeaderCrossesEnd(t *testing.T) {
	data := wavtest.Basic()
	data = append(data, 'j', 'u', 'n', 'k')
	binary.LittleEndian.PutUint32(data[4:8], uint32(len(data)-8))

	c, err := Open(bytes.NewReader(data))
	require.NoError(t, err)

	_, err = c.Chunks()
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestMissingFinalPad(t *testing.T) {
	data := wavtest.Build(wavtest.Fmt(), wavtest.Data(7))
	data = data[:len(data)-1]
	binary.LittleEndian.PutUint32(data[4:8], uint32(len(data)-8))

	c, err := Open(bytes.NewReader(data))
	require.NoError(t, err)

	chunks, err := c.Chunks()
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
}

func TestReadPayload(t *testing.T) {
	data := wavtest.Build(wavtest.Fmt(), wavtest.Chunk{ID: "note", Data: []byte("hello")})

	c, err := Open(bytes.NewReader(data))
	require.NoError(t, err)

	ch, ok, err := c.Find("note")
	require.NoError(t, err)
	require.True(t, ok)

	payload, err := c.ReadPayload(ch)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), payload)
}

func TestReadPayloadOversized(t *testing.T) {
	data := wavtest.Build(wavtest.Fmt(), wavtest.Chunk{ID: "LIST", Data: []byte("INFO")})
	binary.LittleEndian.PutUint32(data[40:44], 0xF0000000)

	c, err := Open(bytes.NewReader(data))
	require.NoError(t, err)

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err = c.ReadPayload(Chunk{ID: "LIST", Offset: 36, Size: 0xF0000000})
	runtime.ReadMemStats(&after)

	assert.ErrorIs(t, err, ErrTruncated)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
}

func TestSetSize(t *testing.T) {
	buf := wavtest.NewBuffer(wavtest.Basic())

	c, err := Open(buf)
	require.NoError(t, err)
	require.NoError(t, c.SetSize(1234))

	assert.Equal(t, uint32(1234), c.Size())
	assert.Equal(t, uint32(1234), binary.LittleEndian.Uint32(buf.Bytes()[4:8]))
}

func TestSetSizeReadOnly(t *testing.T) {
	c, err := Open(bytes.NewReader(wavtest.Basic()))
	require.NoError(t, err)
	assert.ErrorIs(t, c.SetSize(1), ErrReadOnly)
}
