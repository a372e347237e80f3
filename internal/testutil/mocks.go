package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"codeberg.org/snonux/ankitts/internal/anki"
)

// AttachCall records one AttachAudio invocation
type AttachCall struct {
	NoteID   int64
	Field    string
	Filename string
	Data     []byte
}

// MockNoteStore mocks the AnkiConnect client for testing
type MockNoteStore struct {
	Decks  map[string][]int64
	Notes  map[int64]anki.Note
	Errors map[string]error // keyed by action name or "updateNote:<id>"
	Calls  []string

	Attached []AttachCall
}

// NewMockNoteStore creates a store holding notes in one deck
func NewMockNoteStore(deck string, notes ...anki.Note) *MockNoteStore {
	m := &MockNoteStore{
		Decks:  map[string][]int64{},
		Notes:  map[int64]anki.Note{},
		Errors: map[string]error{},
	}
	ids := make([]int64, 0, len(notes))
	for _, n := range notes {
		m.Notes[n.NoteID] = n
		ids = append(ids, n.NoteID)
	}
	m.Decks[deck] = ids
	return m
}

// FindNotes mocks the findNotes action
func (m *MockNoteStore) FindNotes(ctx context.Context, deckName string) ([]int64, error) {
	m.Calls = append(m.Calls, fmt.Sprintf("findNotes %s", deckName))

	if err, ok := m.Errors["findNotes"]; ok {
		return nil, err
	}
	return m.Decks[deckName], nil
}

// NotesInfo mocks the notesInfo action
func (m *MockNoteStore) NotesInfo(ctx context.Context, noteIDs []int64) ([]anki.Note, error) {
	if len(noteIDs) == 0 {
		return []anki.Note{}, nil
	}
	m.Calls = append(m.Calls, fmt.Sprintf("notesInfo %v", noteIDs))

	if err, ok := m.Errors["notesInfo"]; ok {
		return nil, err
	}

	notes := make([]anki.Note, 0, len(noteIDs))
	for _, id := range noteIDs {
		if n, ok := m.Notes[id]; ok {
			notes = append(notes, n)
		}
	}
	return notes, nil
}

// AttachAudio mocks the updateNote action
func (m *MockNoteStore) AttachAudio(ctx context.Context, noteID int64, fieldName, filename string, data []byte) (json.RawMessage, error) {
	m.Calls = append(m.Calls, fmt.Sprintf("updateNote %d %s %s", noteID, fieldName, filename))

	if err, ok := m.Errors[fmt.Sprintf("updateNote:%d", noteID)]; ok {
		return nil, err
	}

	m.Attached = append(m.Attached, AttachCall{
		NoteID:   noteID,
		Field:    fieldName,
		Filename: filename,
		Data:     data,
	})

	if n, ok := m.Notes[noteID]; ok {
		f := n.Fields[fieldName]
		f.Value = anki.FormatSoundField(filename)
		n.Fields[fieldName] = f
	}
	return json.RawMessage("null"), nil
}

// SynthesizeCall records one Synthesize invocation
type SynthesizeCall struct {
	Text     string
	Language string
	Voice    string
}

// MockSynthesizer mocks a TTS provider
type MockSynthesizer struct {
	Audio     []byte
	Extension string
	Errors    map[string]error // keyed by text
	Calls     []SynthesizeCall
}

// NewMockSynthesizer returns a synthesizer producing fake MP3 bytes
func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{
		Audio:     MockAudioData(),
		Extension: "mp3",
		Errors:    map[string]error{},
	}
}

// Synthesize mocks speech synthesis
func (m *MockSynthesizer) Synthesize(ctx context.Context, text, languageCode, voice string) ([]byte, error) {
	m.Calls = append(m.Calls, SynthesizeCall{Text: text, Language: languageCode, Voice: voice})

	if err, ok := m.Errors[text]; ok {
		return nil, err
	}
	return m.Audio, nil
}

// Format returns the configured extension
func (m *MockSynthesizer) Format() string {
	return m.Extension
}

// NewNote builds a note with the given field values
func NewNote(id int64, fields map[string]string) anki.Note {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	n := anki.Note{
		NoteID:    id,
		ModelName: "Basic",
		Fields:    make(map[string]anki.Field, len(fields)),
	}
	for i, name := range names {
		n.Fields[name] = anki.Field{Value: fields[name], Order: i}
	}
	return n
}

// MockAudioData generates mock audio data
func MockAudioData() []byte {
	// Simple mock MP3 header
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
}
