// Package audio reads the descriptive tags a WAV file may carry next to its
// sampler chunk: RIFF LIST/INFO entries and an embedded ID3 chunk.
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"

	"github.com/ankit-chaubey/smplinfo/core/riff"
)

// Field is a single tag key-value pair.
type Field struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Category string `json:"category"`
}

// Tags holds every tag found in one file, in file order.
type Tags struct {
	Fields []Field `json:"fields"`
}

// Get returns the first value for key.
func (t *Tags) Get(key string) (string, bool) {
	for _, f := range t.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

func (t *Tags) add(key, value, category string) {
	value = strings.TrimRight(value, "\x00")
	if value != "" {
		t.Fields = append(t.Fields, Field{Key: key, Value: value, Category: category})
	}
}

// WAV INFO field IDs → human names
var infoChunkNames = map[string]string{
	"IARL": "ArchivalLocation",
	"IART": "Artist",
	"ICMS": "Commissioned",
	"ICMT": "Comment",
	"ICOP": "Copyright",
	"ICRD": "DateCreated",
	"IENG": "Engineer",
	"IGNR": "Genre",
	"IKEY": "Keywords",
	"IMED": "Medium",
	"INAM": "Title",
	"IPRD": "Product",
	"ISBJ": "Subject",
	"ISFT": "Software",
	"ISRC": "Source",
	"ISRF": "SourceForm",
	"ITCH": "Technician",
}

// ReadTags collects LIST/INFO and ID3 tags from c. Structural errors from
// the chunk walk are returned; undecodable tag payloads are skipped.
func ReadTags(c *riff.Container) (*Tags, error) {
	chunks, err := c.Chunks()
	if err != nil {
		return nil, err
	}

	t := &Tags{}
	for _, ch := range chunks {
		switch ch.ID {
		case "LIST":
			data, err := c.ReadPayload(ch)
			if err != nil {
				return nil, err
			}
			readInfo(data, t)
		case "id3 ", "ID3 ":
			data, err := c.ReadPayload(ch)
			if err != nil {
				return nil, err
			}
			readID3(data, t)
		}
	}
	return t, nil
}

func readInfo(data []byte, t *Tags) {
	if len(data) < 4 || string(data[:4]) != "INFO" {
		return
	}
	pos := 4
	for pos+8 <= len(data) {
		infoID := string(data[pos : pos+4])
		infoSize := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		pos += 8
		if pos+infoSize > len(data) {
			break
		}
		name := infoChunkNames[infoID]
		if name == "" {
			name = infoID
		}
		t.add(name, string(data[pos:pos+infoSize]), "WAV INFO")
		pos += infoSize
		if infoSize%2 != 0 {
			pos++
		}
	}
}

func readID3(data []byte, t *Tags) {
	if m, err := tag.ReadFrom(bytes.NewReader(data)); err == nil {
		cat := "WAV " + string(m.Format())
		t.add("Title", m.Title(), cat)
		t.add("Artist", m.Artist(), cat)
		t.add("Album", m.Album(), cat)
		t.add("Genre", m.Genre(), cat)
	}

	// dhowden/tag does not surface musical key or tempo.
	id3, err := id3v2.ParseReader(bytes.NewReader(data), id3v2.Options{Parse: true})
	if err != nil {
		return
	}
	cat := fmt.Sprintf("WAV ID3v2.%d", id3.Version())
	t.add("InitialKey", id3.GetTextFrame("TKEY").Text, cat)
	t.add("BPM", id3.GetTextFrame("TBPM").Text, cat)
}
