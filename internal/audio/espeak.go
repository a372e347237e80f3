package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// commandRunner runs an external program and returns its stdout
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %w\nOutput: %s", name, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// espeakRunner is swapped out in tests
var espeakRunner commandRunner = runCommand

// ESpeakProvider implements Provider interface for the local espeak-ng
// binary. It needs no credentials and writes WAV to stdout.
type ESpeakProvider struct {
	speed int
	run   commandRunner
}

// NewESpeakProvider creates a new espeak-ng provider. NewProvider checks
// that the binary is installed.
func NewESpeakProvider(config *Config) (*ESpeakProvider, error) {
	return &ESpeakProvider{
		speed: clampSpeed(config.ESpeakSpeed),
		run:   espeakRunner,
	}, nil
}

// Synthesize generates WAV audio using espeak-ng
func (p *ESpeakProvider) Synthesize(ctx context.Context, text, languageCode, voice string) ([]byte, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}
	if voice == "" {
		voice = espeakVoice(languageCode)
	}

	args := []string{
		"-v", voice,
		"-s", fmt.Sprintf("%d", p.speed),
		"--stdout",
		text,
	}

	data, err := p.run(ctx, "espeak-ng", args...)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no audio data received from espeak-ng")
	}
	return data, nil
}

// espeakVoice maps a BCP-47 code to an espeak-ng voice name
// (en-GB -> en-gb, ja-JP -> ja).
func espeakVoice(languageCode string) string {
	lang := strings.ToLower(strings.ReplaceAll(languageCode, "_", "-"))
	if lang == "" {
		return "en"
	}
	switch lang {
	case "en-gb", "en-us", "pt-br", "es-419":
		return lang
	}
	primary, _, _ := strings.Cut(lang, "-")
	return primary
}

// clampSpeed keeps the speech speed within espeak-ng's range
func clampSpeed(speed int) int {
	if speed == 0 {
		return 150
	}
	if speed < 80 {
		return 80
	} else if speed > 450 {
		return 450
	}
	return speed
}

// ListVoices parses the table printed by espeak-ng --voices.
// The language column doubles as the value accepted by -v.
func (p *ESpeakProvider) ListVoices(ctx context.Context, languageCode string) ([]Voice, error) {
	args := []string{"--voices"}
	if languageCode != "" {
		args = []string{"--voices=" + espeakVoice(languageCode)}
	}

	out, err := p.run(ctx, "espeak-ng", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list espeak-ng voices: %w", err)
	}
	return parseESpeakVoices(string(out)), nil
}

func parseESpeakVoices(out string) []Voice {
	var voices []Voice
	for i, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		// Skip the header row
		if i == 0 || len(fields) < 4 {
			continue
		}
		gender := ""
		if _, g, ok := strings.Cut(fields[2], "/"); ok {
			switch g {
			case "M":
				gender = "MALE"
			case "F":
				gender = "FEMALE"
			}
		}
		voices = append(voices, Voice{
			Name:          fields[1],
			LanguageCodes: []string{fields[1]},
			Gender:        gender,
		})
	}
	return voices
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak-ng"
}

// Format returns the audio file extension
func (p *ESpeakProvider) Format() string {
	return "wav"
}

// IsAvailable checks if espeak-ng is installed
func (p *ESpeakProvider) IsAvailable() error {
	if _, err := p.run(context.Background(), "espeak-ng", "--version"); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}

// Close is a no-op
func (p *ESpeakProvider) Close() error {
	return nil
}
