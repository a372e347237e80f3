package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"codeberg.org/snonux/ankitts/internal"
)

// CredentialsEnvVar names the service account key file for Google Cloud
const CredentialsEnvVar = "GOOGLE_APPLICATION_CREDENTIALS"

// excerptLength bounds how much of a failing text is logged
const excerptLength = 30

var (
	// ErrCredentialsNotSet is returned when no credentials path is configured
	ErrCredentialsNotSet = errors.New(CredentialsEnvVar + " environment variable is not set")

	// ErrCredentialsNotFound is returned when the credentials path does not exist
	ErrCredentialsNotFound = errors.New(CredentialsEnvVar + " path does not exist")
)

// speechClient is the subset of the Cloud Text-to-Speech client in use
type speechClient interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
	ListVoices(ctx context.Context, req *texttospeechpb.ListVoicesRequest, opts ...gax.CallOption) (*texttospeechpb.ListVoicesResponse, error)
	Close() error
}

// newSpeechClient is swapped out in tests
var newSpeechClient = func(ctx context.Context, credentialsPath string) (speechClient, error) {
	return texttospeech.NewClient(ctx, option.WithCredentialsFile(credentialsPath))
}

// GoogleProvider implements Provider using Google Cloud Text-to-Speech
type GoogleProvider struct {
	client speechClient
	voices VoiceTable
}

// CheckCredentials verifies the credentials file exists without touching
// the network.
func CheckCredentials(path string) error {
	if path == "" {
		return fmt.Errorf("%w: set it to the path of your service account JSON key", ErrCredentialsNotSet)
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", ErrCredentialsNotFound, path)
	}
	return nil
}

// NewGoogleProvider creates a new Google Cloud TTS provider. The credentials
// check runs before the client is constructed.
func NewGoogleProvider(ctx context.Context, config *Config) (*GoogleProvider, error) {
	if err := CheckCredentials(config.CredentialsPath); err != nil {
		return nil, err
	}

	client, err := newSpeechClient(ctx, config.CredentialsPath)
	if err != nil {
		slog.Error("Failed to initialize Google TTS client", "err", err)
		return nil, fmt.Errorf("failed to initialize Google TTS client: %w", err)
	}
	slog.Info("Initialized Google TTS client", "credentials", config.CredentialsPath)

	return &GoogleProvider{
		client: client,
		voices: config.Voices,
	}, nil
}

// Synthesize generates MP3 audio for text
func (p *GoogleProvider) Synthesize(ctx context.Context, text, languageCode, voice string) ([]byte, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}
	if languageCode == "" {
		languageCode = p.voices.defaultLanguage()
	}
	voice = ResolveVoice(p.voices, languageCode, voice)

	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: languageCode,
			Name:         voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	}

	resp, err := p.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		slog.Error("TTS synthesis failed", "text", internal.Excerpt(text, excerptLength), "err", err)
		return nil, fmt.Errorf("Google TTS API error: %w", err)
	}

	return resp.GetAudioContent(), nil
}

// ListVoices returns the voices available for a language, or all voices
// when languageCode is empty.
func (p *GoogleProvider) ListVoices(ctx context.Context, languageCode string) ([]Voice, error) {
	resp, err := p.client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{LanguageCode: languageCode})
	if err != nil {
		return nil, fmt.Errorf("failed to list Google voices: %w", err)
	}

	voices := make([]Voice, 0, len(resp.GetVoices()))
	for _, v := range resp.GetVoices() {
		voices = append(voices, Voice{
			Name:          v.GetName(),
			LanguageCodes: v.GetLanguageCodes(),
			Gender:        v.GetSsmlGender().String(),
		})
	}
	sort.Slice(voices, func(i, j int) bool { return voices[i].Name < voices[j].Name })

	return voices, nil
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return "google"
}

// Format returns the audio file extension
func (p *GoogleProvider) Format() string {
	return "mp3"
}

// IsAvailable checks that a client was initialized
func (p *GoogleProvider) IsAvailable() error {
	if p.client == nil {
		return fmt.Errorf("Google TTS client not initialized")
	}
	return nil
}

// Close releases the gRPC connection
func (p *GoogleProvider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}
