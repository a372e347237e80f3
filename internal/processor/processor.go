package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/snonux/ankitts/internal"
	"codeberg.org/snonux/ankitts/internal/anki"
)

// NoteStore is the subset of the AnkiConnect client the processor needs
type NoteStore interface {
	FindNotes(ctx context.Context, deckName string) ([]int64, error)
	NotesInfo(ctx context.Context, noteIDs []int64) ([]anki.Note, error)
	AttachAudio(ctx context.Context, noteID int64, fieldName, filename string, audioData []byte) (json.RawMessage, error)
}

// Synthesizer turns text into audio bytes. audio.Provider satisfies it.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, languageCode, voice string) ([]byte, error)
	Format() string
}

// Options describes one deck run
type Options struct {
	Deck       string
	TextField  string
	AudioField string
	Language   string
	Voice      string // empty selects the language default
	Overwrite  bool
}

// Decision is the per-note policy outcome
type Decision int

const (
	Process Decision = iota
	SkipMissingFields
	SkipEmptyText
	SkipHasAudio
)

func (d Decision) String() string {
	switch d {
	case Process:
		return "process"
	case SkipMissingFields:
		return "skip: missing fields"
	case SkipEmptyText:
		return "skip: empty text"
	case SkipHasAudio:
		return "skip: has audio"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// Decide applies the skip/process policy to a note. It has no side effects.
func Decide(note anki.Note, opts Options) Decision {
	if !note.HasFields(opts.TextField, opts.AudioField) {
		return SkipMissingFields
	}

	text, _ := note.FieldValue(opts.TextField)
	if strings.TrimSpace(text) == "" {
		return SkipEmptyText
	}

	target, _ := note.FieldValue(opts.AudioField)
	if anki.FieldReferencesAttachedAudio(target) && !opts.Overwrite {
		return SkipHasAudio
	}

	return Process
}

// Summary counts the outcomes of one deck run
type Summary struct {
	Deck          string
	Total         int
	Processed     int
	Failed        int
	MissingFields int
	EmptyText     int
	HasAudio      int
}

// Skipped returns the number of notes skipped by policy
func (s *Summary) Skipped() int {
	return s.MissingFields + s.EmptyText + s.HasAudio
}

func (s *Summary) record(d Decision) {
	switch d {
	case SkipMissingFields:
		s.MissingFields++
	case SkipEmptyText:
		s.EmptyText++
	case SkipHasAudio:
		s.HasAudio++
	}
}

// Processor adds synthesized audio to the notes of a deck
type Processor struct {
	store NoteStore
	synth Synthesizer
}

// NewProcessor creates a new deck processor
func NewProcessor(store NoteStore, synth Synthesizer) *Processor {
	return &Processor{
		store: store,
		synth: synth,
	}
}

// ProcessDeck visits every note of opts.Deck once. Failures listing or
// fetching notes are returned; per-note failures are logged and counted.
// A cancelled context stops the run between notes.
func (p *Processor) ProcessDeck(ctx context.Context, opts Options) (*Summary, error) {
	summary := &Summary{Deck: opts.Deck}

	noteIDs, err := p.store.FindNotes(ctx, opts.Deck)
	if err != nil {
		return summary, fmt.Errorf("failed to find notes in deck %q: %w", opts.Deck, err)
	}
	if len(noteIDs) == 0 {
		slog.Info("No notes found in deck", "deck", opts.Deck)
		return summary, nil
	}

	notes, err := p.store.NotesInfo(ctx, noteIDs)
	if err != nil {
		return summary, fmt.Errorf("failed to fetch notes of deck %q: %w", opts.Deck, err)
	}
	summary.Total = len(notes)

	for _, note := range notes {
		if err := ctx.Err(); err != nil {
			slog.Warn("Deck processing interrupted", "deck", opts.Deck, "remaining", summary.Total-summary.Processed-summary.Failed-summary.Skipped())
			return summary, err
		}

		decision := Decide(note, opts)
		switch decision {
		case SkipMissingFields:
			slog.Warn("Note is missing a required field", "note", note.NoteID,
				"text_field", opts.TextField, "audio_field", opts.AudioField)
		case SkipEmptyText:
			slog.Debug("Skipping note with empty text", "note", note.NoteID)
		case SkipHasAudio:
			slog.Debug("Skipping note that already has audio", "note", note.NoteID)
		case Process:
			if err := p.processNote(ctx, note, opts); err != nil {
				slog.Error("Failed to process note", "note", note.NoteID, "err", err)
				summary.Failed++
				continue
			}
			summary.Processed++
			continue
		}
		summary.record(decision)
	}

	slog.Info("Finished processing deck", "deck", opts.Deck,
		"total", summary.Total, "processed", summary.Processed,
		"skipped", summary.Skipped(), "failed", summary.Failed)
	return summary, nil
}

// processNote synthesizes the text field and attaches the audio
func (p *Processor) processNote(ctx context.Context, note anki.Note, opts Options) error {
	text, _ := note.FieldValue(opts.TextField)

	slog.Info("Generating audio for note", "note", note.NoteID, "text", internal.Excerpt(strings.TrimSpace(text), 30))

	audioData, err := p.synth.Synthesize(ctx, text, opts.Language, opts.Voice)
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}

	filename := internal.AudioFilename(note.NoteID, p.synth.Format())
	if _, err := p.store.AttachAudio(ctx, note.NoteID, opts.AudioField, filename, audioData); err != nil {
		return fmt.Errorf("attaching %s failed: %w", filename, err)
	}

	slog.Debug("Attached audio", "note", note.NoteID, "file", filename, "bytes", len(audioData))
	return nil
}

// ProcessDecks runs ProcessDeck for each deck in order. A failing deck is
// logged and the next one is attempted; all failures are returned joined.
func (p *Processor) ProcessDecks(ctx context.Context, decks []string, opts Options) ([]*Summary, error) {
	var (
		summaries []*Summary
		errs      []error
	)

	for _, deck := range decks {
		opts.Deck = deck
		summary, err := p.ProcessDeck(ctx, opts)
		summaries = append(summaries, summary)
		if err != nil {
			if ctx.Err() != nil {
				errs = append(errs, err)
				break
			}
			slog.Error("Failed to process deck", "deck", deck, "err", err)
			errs = append(errs, err)
		}
	}

	return summaries, errors.Join(errs...)
}
