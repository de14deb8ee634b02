package ui

import "unicode/utf8"

// IsPrintableKey returns true if the key is a single printable character.
// This is used by text input handlers to filter which keys to append.
func IsPrintableKey(key string) bool {
	r, size := utf8.DecodeRuneInString(key)
	if size != len(key) || r == utf8.RuneError {
		return false
	}
	return r >= 32 && r != 127
}
