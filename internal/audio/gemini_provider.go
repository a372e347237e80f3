package audio

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"codeberg.org/snonux/ankitts/internal"
)

// geminiVoices lists a subset of the prebuilt Gemini speech voices
var geminiVoices = []string{"Aoede", "Charon", "Fenrir", "Kore", "Leda", "Orus", "Puck", "Zephyr"}

// contentGenerator is the subset of genai.Models in use
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProvider implements Provider using Gemini speech generation.
// Gemini returns raw PCM which is wrapped into a WAV container.
type GeminiProvider struct {
	models contentGenerator
	config *Config
}

// NewGeminiProvider creates a new Gemini TTS provider
func NewGeminiProvider(ctx context.Context, config *Config) (*GeminiProvider, error) {
	if config.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		models: client.Models,
		config: config,
	}, nil
}

// Synthesize generates WAV audio for text
func (p *GeminiProvider) Synthesize(ctx context.Context, text, languageCode, voice string) ([]byte, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}
	if voice == "" {
		voice = p.config.GeminiVoice
	}

	speech := &genai.SpeechConfig{
		LanguageCode: languageCode,
		VoiceConfig: &genai.VoiceConfig{
			PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
		},
	}

	resp, err := p.models.GenerateContent(ctx, p.config.GeminiModel, genai.Text(text), &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig:       speech,
	})
	if err != nil {
		slog.Error("TTS synthesis failed", "text", internal.Excerpt(text, excerptLength), "err", err)
		return nil, fmt.Errorf("Gemini TTS API error: %w", err)
	}

	pcm, mimeType := collectInlineAudio(resp)
	if len(pcm) == 0 {
		return nil, fmt.Errorf("no audio data received from Gemini")
	}

	return encodeWAV(pcm, parsePCMMimeType(mimeType, geminiPCM)), nil
}

// collectInlineAudio concatenates the audio parts of the first candidate
func collectInlineAudio(resp *genai.GenerateContentResponse) ([]byte, string) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ""
	}

	var (
		pcm      []byte
		mimeType string
	)
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil {
			continue
		}
		if !strings.HasPrefix(part.InlineData.MIMEType, "audio/") {
			continue
		}
		if mimeType == "" {
			mimeType = part.InlineData.MIMEType
		}
		pcm = append(pcm, part.InlineData.Data...)
	}
	return pcm, mimeType
}

// ListVoices returns the prebuilt Gemini voices. Gemini voices are multilingual.
func (p *GeminiProvider) ListVoices(ctx context.Context, languageCode string) ([]Voice, error) {
	voices := make([]Voice, 0, len(geminiVoices))
	for _, name := range geminiVoices {
		voices = append(voices, Voice{Name: name, LanguageCodes: []string{"multilingual"}})
	}
	return voices, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Format returns the audio file extension
func (p *GeminiProvider) Format() string {
	return "wav"
}

// IsAvailable checks that an API key is configured
func (p *GeminiProvider) IsAvailable() error {
	if p.config.GeminiKey == "" {
		return fmt.Errorf("Gemini API key not configured")
	}
	return nil
}

// Close is a no-op; the genai client holds no resources
func (p *GeminiProvider) Close() error {
	return nil
}
