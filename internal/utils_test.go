package internal

import "testing"

func TestAudioFilename(t *testing.T) {
	tests := []struct {
		name   string
		noteID int64
		ext    string
		want   string
	}{
		{"mp3", 1, "mp3", "1.mp3"},
		{"dotted extension", 3, ".mp3", "3.mp3"},
		{"wav", 1700000000000, "wav", "1700000000000.wav"},
		{"empty extension defaults to mp3", 42, "", "42.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AudioFilename(tt.noteID, tt.ext); got != tt.want {
				t.Errorf("AudioFilename(%d, %q) = %q, want %q", tt.noteID, tt.ext, got, tt.want)
			}
		})
	}
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{"short text unchanged", "Hello", 30, "Hello"},
		{"exact length unchanged", "abc", 3, "abc"},
		{"long text truncated", "abcdef", 3, "abc..."},
		{"multibyte runes", "こんにちは世界", 5, "こんにちは..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Excerpt(tt.text, tt.n); got != tt.want {
				t.Errorf("Excerpt(%q, %d) = %q, want %q", tt.text, tt.n, got, tt.want)
			}
		})
	}
}
