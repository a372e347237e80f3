// Package voices prints the voices a TTS provider offers, grouped by
// language, so users can pick a value for --voice or the tts.voices map.
package voices
