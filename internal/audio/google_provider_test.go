package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
)

// fakeSpeechClient records synthesis requests
type fakeSpeechClient struct {
	audio    []byte
	err      error
	requests []*texttospeechpb.SynthesizeSpeechRequest
	voices   []*texttospeechpb.Voice
	closed   bool
}

func (f *fakeSpeechClient) SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &texttospeechpb.SynthesizeSpeechResponse{AudioContent: f.audio}, nil
}

func (f *fakeSpeechClient) ListVoices(ctx context.Context, req *texttospeechpb.ListVoicesRequest, opts ...gax.CallOption) (*texttospeechpb.ListVoicesResponse, error) {
	return &texttospeechpb.ListVoicesResponse{Voices: f.voices}, nil
}

func (f *fakeSpeechClient) Close() error {
	f.closed = true
	return nil
}

// stubSpeechClient replaces the client constructor for one test
func stubSpeechClient(t *testing.T, client speechClient, err error) *int {
	t.Helper()
	calls := 0
	orig := newSpeechClient
	newSpeechClient = func(ctx context.Context, credentialsPath string) (speechClient, error) {
		calls++
		return client, err
	}
	t.Cleanup(func() { newSpeechClient = orig })
	return &calls
}

func writeCredentials(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake_key.json")
	if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
		t.Fatalf("Failed to write credentials: %v", err)
	}
	return path
}

func TestNewGoogleProvider(t *testing.T) {
	fake := &fakeSpeechClient{}
	calls := stubSpeechClient(t, fake, nil)

	config := DefaultProviderConfig()
	config.CredentialsPath = writeCredentials(t)

	provider, err := NewGoogleProvider(context.Background(), config)
	if err != nil {
		t.Fatalf("NewGoogleProvider failed: %v", err)
	}
	if *calls != 1 {
		t.Errorf("client constructor called %d times, want 1", *calls)
	}
	if provider.client != fake {
		t.Error("provider should use the constructed client")
	}
	if provider.Name() != "google" || provider.Format() != "mp3" {
		t.Errorf("Name/Format = %s/%s, want google/mp3", provider.Name(), provider.Format())
	}
	if err := provider.IsAvailable(); err != nil {
		t.Errorf("IsAvailable() = %v, want nil", err)
	}
	if err := provider.Close(); err != nil || !fake.closed {
		t.Errorf("Close() = %v, closed = %v", err, fake.closed)
	}
}

func TestNewGoogleProviderCredentialGuard(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{
			name:    "missing env",
			path:    "",
			wantErr: ErrCredentialsNotSet,
		},
		{
			name:    "invalid path",
			path:    filepath.Join(t.TempDir(), "does_not_exist.json"),
			wantErr: ErrCredentialsNotFound,
		},
		{
			name:    "directory instead of file",
			path:    t.TempDir(),
			wantErr: ErrCredentialsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := stubSpeechClient(t, &fakeSpeechClient{}, nil)

			config := DefaultProviderConfig()
			config.CredentialsPath = tt.path

			_, err := NewGoogleProvider(context.Background(), config)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewGoogleProvider() error = %v, want %v", err, tt.wantErr)
			}
			if *calls != 0 {
				t.Errorf("client constructor called %d times before credential check passed", *calls)
			}
		})
	}
}

func TestNewGoogleProviderClientFailure(t *testing.T) {
	stubSpeechClient(t, nil, errors.New("Failed to init"))

	config := DefaultProviderConfig()
	config.CredentialsPath = writeCredentials(t)

	if _, err := NewGoogleProvider(context.Background(), config); err == nil {
		t.Error("Expected error when the client fails to initialize")
	}
}

func TestGoogleSynthesizeReturnsBytes(t *testing.T) {
	fake := &fakeSpeechClient{audio: []byte("fake_audio_data")}
	provider := &GoogleProvider{client: fake, voices: DefaultVoiceTable()}

	got, err := provider.Synthesize(context.Background(), "こんにちは", "ja-JP", "")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if string(got) != "fake_audio_data" {
		t.Errorf("Synthesize = %q, want fake_audio_data", got)
	}

	req := fake.requests[0]
	if req.GetInput().GetText() != "こんにちは" {
		t.Errorf("input text = %q", req.GetInput().GetText())
	}
	if req.GetVoice().GetName() != "ja-JP-Wavenet-B" {
		t.Errorf("voice = %q, want ja-JP-Wavenet-B", req.GetVoice().GetName())
	}
	if req.GetAudioConfig().GetAudioEncoding() != texttospeechpb.AudioEncoding_MP3 {
		t.Errorf("encoding = %v, want MP3", req.GetAudioConfig().GetAudioEncoding())
	}
}

func TestGoogleSynthesizeVoiceSelection(t *testing.T) {
	tests := []struct {
		name      string
		language  string
		voice     string
		wantLang  string
		wantVoice string
	}{
		{"custom voice", "en-GB", "en-GB-Wavenet-F", "en-GB", "en-GB-Wavenet-F"},
		{"table default", "fr-FR", "", "fr-FR", "fr-FR-Wavenet-F"},
		{"unknown language falls back", "de-DE", "", "de-DE", "ja-JP-Wavenet-B"},
		{"empty language uses default", "", "", "ja-JP", "ja-JP-Wavenet-B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSpeechClient{audio: []byte("voice_audio_data")}
			provider := &GoogleProvider{client: fake, voices: DefaultVoiceTable()}

			if _, err := provider.Synthesize(context.Background(), "Hello", tt.language, tt.voice); err != nil {
				t.Fatalf("Synthesize failed: %v", err)
			}
			if len(fake.requests) != 1 {
				t.Fatalf("expected exactly one request, got %d", len(fake.requests))
			}
			voice := fake.requests[0].GetVoice()
			if voice.GetLanguageCode() != tt.wantLang || voice.GetName() != tt.wantVoice {
				t.Errorf("voice = %s/%s, want %s/%s", voice.GetLanguageCode(), voice.GetName(), tt.wantLang, tt.wantVoice)
			}
		})
	}
}

func TestGoogleSynthesizeError(t *testing.T) {
	fake := &fakeSpeechClient{err: errors.New("quota exceeded")}
	provider := &GoogleProvider{client: fake, voices: DefaultVoiceTable()}

	if _, err := provider.Synthesize(context.Background(), "Hello", "en-GB", ""); err == nil {
		t.Error("Expected remote error to propagate")
	}
}

func TestGoogleSynthesizeEmptyText(t *testing.T) {
	fake := &fakeSpeechClient{}
	provider := &GoogleProvider{client: fake, voices: DefaultVoiceTable()}

	if _, err := provider.Synthesize(context.Background(), "  ", "ja-JP", ""); err == nil {
		t.Error("Expected error for empty text")
	}
	if len(fake.requests) != 0 {
		t.Error("empty text should not reach the API")
	}
}

func TestGoogleListVoices(t *testing.T) {
	fake := &fakeSpeechClient{
		voices: []*texttospeechpb.Voice{
			{Name: "ja-JP-Wavenet-B", LanguageCodes: []string{"ja-JP"}, SsmlGender: texttospeechpb.SsmlVoiceGender_FEMALE},
			{Name: "ja-JP-Neural2-C", LanguageCodes: []string{"ja-JP"}, SsmlGender: texttospeechpb.SsmlVoiceGender_MALE},
		},
	}
	provider := &GoogleProvider{client: fake}

	voices, err := provider.ListVoices(context.Background(), "ja-JP")
	if err != nil {
		t.Fatalf("ListVoices failed: %v", err)
	}
	if len(voices) != 2 {
		t.Fatalf("expected 2 voices, got %d", len(voices))
	}
	if voices[0].Name != "ja-JP-Neural2-C" {
		t.Errorf("voices should be sorted by name, got %s first", voices[0].Name)
	}
	if voices[1].Gender != "FEMALE" {
		t.Errorf("Gender = %q, want FEMALE", voices[1].Gender)
	}
}
