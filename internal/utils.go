package internal

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Version is the ankitts release version
const Version = "0.3.0"

// AudioFilename derives the media filename for a note
// Format: <noteID>.<ext>
func AudioFilename(noteID int64, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "mp3"
	}
	return fmt.Sprintf("%d.%s", noteID, ext)
}

// Excerpt shortens text to at most n runes for log messages
func Excerpt(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n]) + "..."
}
