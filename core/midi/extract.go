package midi

import (
	"path/filepath"
)

// FromFilename looks for a note name embedded in a file name, such as the
// "C3" in "kick_C3_v2.wav". Tokens must be delimited by the start or end of
// the name or by one of "-_." or whitespace. A note is returned only when
// every candidate token is a valid note and all agree on a single value.
func FromFilename(name string) (Note, bool) {
	name = filepath.Base(name)

	var (
		found Note
		count int
	)
	for i := 0; i < len(name); i++ {
		if i > 0 && !isSeparator(name[i-1]) {
			continue
		}
		end, ok := scanToken(name, i)
		if !ok {
			continue
		}
		n, err := Parse(name[i:end])
		if err != nil {
			return 0, false
		}
		if count > 0 && n != found {
			return 0, false
		}
		found = n
		count++
		i = end - 1
	}
	return found, count > 0
}

// scanToken matches [A-G]#?[+-]?[0-9]+ at s[i:] and requires it to be
// followed by a separator or the end of s.
func scanToken(s string, i int) (int, bool) {
	if s[i] < 'A' || s[i] > 'G' {
		return 0, false
	}
	j := i + 1
	if j < len(s) && s[j] == '#' {
		j++
	}
	if j < len(s) && (s[j] == '-' || s[j] == '+') {
		j++
	}
	digits := j
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == digits {
		return 0, false
	}
	if j < len(s) && !isSeparator(s[j]) {
		return 0, false
	}
	return j, true
}

func isSeparator(c byte) bool {
	switch c {
	case '-', '_', '.', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
