// Package core defines the shared types, file detection and output for
// smplinfo, and the ReadSample entry point used by browsing front ends.
package core

import (
	"github.com/ankit-chaubey/smplinfo/core/audio"
	"github.com/ankit-chaubey/smplinfo/core/format"
	"github.com/ankit-chaubey/smplinfo/core/midi"
)

// Sample is what a browser needs to list one WAV file.
type Sample struct {
	Path string      `json:"path"`
	Note *midi.Note  `json:"note,omitempty"`
	Tags *audio.Tags `json:"tags,omitempty"`
}

// EditOptions holds the changes a batch run applies to each file.
type EditOptions struct {
	// Note sets every file's root note. Takes precedence over
	// NoteFromFilename.
	Note *midi.Note
	// NoteFromFilename sets the root note from a note name embedded in the
	// file name, when exactly one is found.
	NoteFromFilename bool
	// Template renames each file. The rendered text replaces the file stem.
	Template *format.Template
	// Recursive expands directories into their whole subtree.
	Recursive bool
	// DryRun previews changes without writing.
	DryRun bool
	// Atomic edits a temporary copy and renames it over the original.
	Atomic bool
	// Extensions selects files when expanding directories. Files with other
	// extensions are still included when their content is WAV.
	Extensions []string
}

// NoteSource records where a new root note came from.
type NoteSource string

const (
	SourceNone     NoteSource = ""
	SourceArgument NoteSource = "argument"
	SourceFilename NoteSource = "filename"
)

// Result describes what happened to one file in a batch run.
type Result struct {
	Path    string      `json:"path"`
	NewPath string      `json:"new_path,omitempty"`
	OldNote *midi.Note  `json:"old_note,omitempty"`
	NewNote *midi.Note  `json:"new_note,omitempty"`
	Source  NoteSource  `json:"note_source,omitempty"`
	Updated bool        `json:"updated"`
	Renamed bool        `json:"renamed"`
	DryRun  bool        `json:"dry_run,omitempty"`
	Notes   []string    `json:"notes,omitempty"`
	Tags    *audio.Tags `json:"tags,omitempty"`
	Err     error       `json:"-"`
}

// Note returns the root note the file has after processing.
func (r *Result) Note() *midi.Note {
	if r.NewNote != nil {
		return r.NewNote
	}
	return r.OldNote
}

// Failed reports whether processing the file failed.
func (r *Result) Failed() bool {
	return r.Err != nil
}
