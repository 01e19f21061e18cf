// Package format parses and renders sample file name templates.
//
// A template is literal text with these escapes:
//
//	%m  MIDI note number, zero padded to three digits ("060")
//	%n  note name with octave ("C3")
//	%%  a literal percent sign
//
// %m and %n render as nothing when the sample has no root note.
package format

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ankit-chaubey/smplinfo/core/midi"
)

// ErrInvalidFormat is returned by Parse in Strict mode for unknown escapes.
var ErrInvalidFormat = errors.New("format: invalid format specifier")

// Mode selects how Parse treats unknown escapes.
type Mode int

const (
	// Strict rejects unknown escapes and a trailing '%'.
	Strict Mode = iota
	// Permissive keeps unknown escapes as literal text.
	Permissive
)

type partKind int

const (
	literal partKind = iota
	midiNote
	noteName
)

type part struct {
	kind partKind
	text string
}

// Template is a parsed file name template. It is immutable and safe for
// concurrent use.
type Template struct {
	source string
	parts  []part
}

// Parse parses s into a Template.
func Parse(s string, mode Mode) (*Template, error) {
	t := &Template{source: s}
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			t.parts = append(t.parts, part{kind: literal, text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			lit.WriteByte(s[i])
			continue
		}

		if i+1 == len(s) {
			if mode == Strict {
				return nil, fmt.Errorf("%w: trailing %% at offset %d", ErrInvalidFormat, i)
			}
			lit.WriteByte('%')
			continue
		}

		i++
		switch c := s[i]; c {
		case '%':
			lit.WriteByte('%')
		case 'm':
			flush()
			t.parts = append(t.parts, part{kind: midiNote})
		case 'n':
			flush()
			t.parts = append(t.parts, part{kind: noteName})
		default:
			if mode == Strict {
				return nil, fmt.Errorf("%w: %%%c at offset %d", ErrInvalidFormat, c, i-1)
			}
			lit.WriteByte('%')
			lit.WriteByte(c)
		}
	}
	flush()

	return t, nil
}

// MustParse is like Parse in Strict mode but panics on error.
func MustParse(s string) *Template {
	t, err := Parse(s, Strict)
	if err != nil {
		panic(err)
	}
	return t
}

// Render expands the template for a sample with the given root note, which
// may be nil.
func (t *Template) Render(note *midi.Note) string {
	var b strings.Builder
	for _, p := range t.parts {
		switch p.kind {
		case literal:
			b.WriteString(p.text)
		case midiNote:
			if note != nil {
				n := strconv.Itoa(int(*note))
				b.WriteString(strings.Repeat("0", 3-len(n)))
				b.WriteString(n)
			}
		case noteName:
			if note != nil {
				b.WriteString(note.String())
			}
		}
	}
	return b.String()
}

// String returns the template source.
func (t *Template) String() string {
	return t.source
}
