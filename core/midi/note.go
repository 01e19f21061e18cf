// Package midi implements MIDI note numbers and their textual names.
//
// Note names use the convention where middle C (note 60) is C3 and
// note 0 is C-2.
package midi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidNote is returned when a string is neither a note number nor a
// note name.
var ErrInvalidNote = errors.New("midi: invalid note")

// octaveOffset is the number of octaves below octave 0. It is shared by
// Parse and String so the two stay exact inverses.
const octaveOffset = 2

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Note is a MIDI note number.
type Note uint8

// Parse reads a note from either a decimal number ("60") or a note name
// followed by an octave ("C3", "F#-1").
func Parse(s string) (Note, error) {
	if n, err := strconv.ParseUint(s, 10, 8); err == nil {
		return Note(n), nil
	}

	idx, rest, ok := splitName(s)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, s)
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, s)
	}

	value := (octave+octaveOffset)*len(noteNames) + idx
	if value < 0 || value > 255 {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidNote, s)
	}
	return Note(value), nil
}

// splitName strips the longest note name prefix from s and returns its
// index in the chromatic scale together with the remainder.
func splitName(s string) (int, string, bool) {
	if s == "" {
		return 0, "", false
	}
	best := -1
	for i, name := range noteNames {
		if strings.HasPrefix(s, name) && (best < 0 || len(name) > len(noteNames[best])) {
			best = i
		}
	}
	if best < 0 {
		return 0, "", false
	}
	return best, s[len(noteNames[best]):], true
}

// Name returns the pitch class name without octave, e.g. "C#".
func (n Note) Name() string {
	return noteNames[int(n)%len(noteNames)]
}

// Octave returns the displayed octave number.
func (n Note) Octave() int {
	return int(n)/len(noteNames) - octaveOffset
}

// String returns the note name with octave, e.g. "C3" for 60.
func (n Note) String() string {
	return n.Name() + strconv.Itoa(n.Octave())
}

// MarshalText encodes the note as its name.
func (n Note) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText accepts anything Parse accepts.
func (n *Note) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*n = v
	return nil
}
