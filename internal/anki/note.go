package anki

import (
	"fmt"
	"strings"
)

// Note is a single flashcard record as returned by notesInfo
type Note struct {
	NoteID    int64            `json:"noteId"`
	ModelName string           `json:"modelName,omitempty"`
	Tags      []string         `json:"tags,omitempty"`
	Fields    map[string]Field `json:"fields"`
}

// Field is the stored value of one note field
type Field struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

// FieldValue returns the value of a field and whether the note has it
func (n Note) FieldValue(name string) (string, bool) {
	f, ok := n.Fields[name]
	if !ok {
		return "", false
	}
	return f.Value, true
}

// HasFields reports whether the note has every named field
func (n Note) HasFields(names ...string) bool {
	for _, name := range names {
		if _, ok := n.Fields[name]; !ok {
			return false
		}
	}
	return true
}

// MediaAttachment describes a media file sent with updateNote
type MediaAttachment struct {
	Filename string   `json:"filename"`
	Data     string   `json:"data"` // base64 encoded
	Fields   []string `json:"fields"`
}

type noteUpdate struct {
	ID     int64             `json:"id"`
	Fields map[string]string `json:"fields"`
	Audio  []MediaAttachment `json:"audio"`
}

// soundMarker is the prefix Anki's renderer uses to reference media
const soundMarker = "[sound:"

// FieldReferencesAttachedAudio reports whether a stored field value already
// references attached media. This is a substring match on the renderer
// markup, so it also matches sound tags that were not produced by ankitts.
func FieldReferencesAttachedAudio(value string) bool {
	return strings.Contains(value, soundMarker)
}

// FormatSoundField formats a media filename the way Anki renders audio
func FormatSoundField(filename string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("%s%s]", soundMarker, filename)
}
