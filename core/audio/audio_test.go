package audio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankit-chaubey/smplinfo/core/riff"
	"github.com/ankit-chaubey/smplinfo/internal/wavtest"
)

func infoChunk(entries ...string) wavtest.Chunk {
	var b bytes.Buffer
	b.WriteString("INFO")
	for i := 0; i+1 < len(entries); i += 2 {
		b.WriteString(entries[i])
		value := entries[i+1] + "\x00"
		_ = binary.Write(&b, binary.LittleEndian, uint32(len(value)))
		b.WriteString(value)
		if len(value)%2 != 0 {
			b.WriteByte(0)
		}
	}
	return wavtest.Chunk{ID: "LIST", Data: b.Bytes()}
}

func id3Chunk(t *testing.T) wavtest.Chunk {
	t.Helper()

	tg := id3v2.NewEmptyTag()
	tg.SetTitle("Kick Drum")
	tg.SetArtist("Studio")
	tg.AddTextFrame("TKEY", id3v2.EncodingUTF8, "Cm")
	tg.AddTextFrame("TBPM", id3v2.EncodingUTF8, "120")

	var b bytes.Buffer
	_, err := tg.WriteTo(&b)
	require.NoError(t, err)
	return wavtest.Chunk{ID: "id3 ", Data: b.Bytes()}
}

func readTags(t *testing.T, data []byte) *Tags {
	t.Helper()

	c, err := riff.Open(bytes.NewReader(data))
	require.NoError(t, err)
	tags, err := ReadTags(c)
	require.NoError(t, err)
	return tags
}

func TestReadTagsInfo(t *testing.T) {
	tags := readTags(t, wavtest.Build(wavtest.Fmt(), infoChunk("INAM", "Snare", "IART", "Me", "IXYZ", "custom"), wavtest.Data(4)))

	assert.Equal(t, []Field{
		{Key: "Title", Value: "Snare", Category: "WAV INFO"},
		{Key: "Artist", Value: "Me", Category: "WAV INFO"},
		{Key: "IXYZ", Value: "custom", Category: "WAV INFO"},
	}, tags.Fields)
}

func TestReadTagsID3(t *testing.T) {
	tags := readTags(t, wavtest.Build(wavtest.Fmt(), wavtest.Data(4), id3Chunk(t)))

	title, ok := tags.Get("Title")
	require.True(t, ok)
	assert.Equal(t, "Kick Drum", title)

	key, ok := tags.Get("InitialKey")
	require.True(t, ok)
	assert.Equal(t, "Cm", key)

	bpm, _ := tags.Get("BPM")
	assert.Equal(t, "120", bpm)
}

func TestReadTagsNone(t *testing.T) {
	tags := readTags(t, wavtest.Basic())
	assert.Empty(t, tags.Fields)

	_, ok := tags.Get("Title")
	assert.False(t, ok)
}

func TestReadTagsIgnoresGarbage(t *testing.T) {
	tags := readTags(t, wavtest.Build(
		wavtest.Fmt(),
		wavtest.Chunk{ID: "LIST", Data: []byte("adtlxxxx")},
		wavtest.Chunk{ID: "id3 ", Data: []byte("not an id3 tag")},
	))
	assert.Empty(t, tags.Fields)
}
