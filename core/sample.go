package core

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/ankit-chaubey/smplinfo/core/audio"
	"github.com/ankit-chaubey/smplinfo/core/wav"
)

// ReadSample opens path, validates that it is a WAV file and reads its root
// note and tags without loading the audio. Tags that cannot be read are
// left nil. The file is closed before
// returning. A file without a sampler chunk yields a Sample with a nil Note.
func ReadSample(fs afero.Fs, path string) (*Sample, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	w, err := wav.New(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s := &Sample{Path: path}

	chunk, err := w.SamplerChunk()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if chunk != nil {
		n := chunk.UnityNote()
		s.Note = &n
	}

	// Tags are best effort: a layout error past the sampler chunk does not
	// hide a readable note.
	if tags, err := audio.ReadTags(w.Container()); err == nil && len(tags.Fields) > 0 {
		s.Tags = tags
	}

	return s, nil
}
