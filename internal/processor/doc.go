// Package processor contains the core logic of ankitts. It walks the notes
// of a deck, decides per note whether audio is needed, asks a TTS provider
// for it and attaches the result through AnkiConnect. It depends only on
// the small NoteStore and Synthesizer interfaces so it can be tested
// without Anki or a cloud account.
package processor
