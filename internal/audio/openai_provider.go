package audio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/ankitts/internal"
)

// openAIVoices is the fixed OpenAI voice catalog
var openAIVoices = []string{"alloy", "ash", "ballad", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer", "verse"}

// OpenAIProvider implements Provider interface for OpenAI TTS
type OpenAIProvider struct {
	client *openai.Client
	config *Config
}

// NewOpenAIProvider creates a new OpenAI TTS provider
func NewOpenAIProvider(config *Config) (*OpenAIProvider, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = config.OpenAIBaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Synthesize generates MP3 audio using OpenAI TTS. The language code only
// feeds the voice instruction since OpenAI detects the input language.
func (p *OpenAIProvider) Synthesize(ctx context.Context, text, languageCode, voice string) ([]byte, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}
	if voice == "" {
		voice = p.config.OpenAIVoice
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.config.OpenAIModel),
		Input:          text,
		Voice:          openai.SpeechVoice(voice),
		Speed:          p.config.OpenAISpeed,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	}

	// Add instructions for gpt-4o-mini-tts model
	if p.supportsInstructions() {
		req.Instructions = p.instruction(languageCode)
	}

	slog.Debug("OpenAI TTS request", "model", p.config.OpenAIModel, "voice", voice, "speed", p.config.OpenAISpeed)

	response, err := p.client.CreateSpeech(ctx, req)
	if err != nil {
		slog.Error("TTS synthesis failed", "text", internal.Excerpt(text, excerptLength), "err", err)
		// Check if it's a model access error
		if strings.Contains(err.Error(), "does not have access to model") && p.supportsInstructions() {
			return nil, fmt.Errorf("OpenAI TTS API error: %w\nNote: The %s model requires access. Try using tts-1-hd instead", err, p.config.OpenAIModel)
		}
		return nil, fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	data, err := io.ReadAll(response)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no audio data received from OpenAI")
	}

	return data, nil
}

func (p *OpenAIProvider) supportsInstructions() bool {
	return p.config.OpenAIModel == "gpt-4o-mini-tts" || p.config.OpenAIModel == "gpt-4o-mini-audio-preview"
}

func (p *OpenAIProvider) instruction(languageCode string) string {
	if p.config.OpenAIInstruction != "" {
		return p.config.OpenAIInstruction
	}
	if languageCode == "" {
		return ""
	}
	return fmt.Sprintf("Speak the text as a native speaker of %s. Pronounce it slowly and clearly for language learners.", languageCode)
}

// ListVoices returns the OpenAI voice catalog. OpenAI voices are multilingual.
func (p *OpenAIProvider) ListVoices(ctx context.Context, languageCode string) ([]Voice, error) {
	voices := make([]Voice, 0, len(openAIVoices))
	for _, name := range openAIVoices {
		voices = append(voices, Voice{Name: name, LanguageCodes: []string{"multilingual"}})
	}
	return voices, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Format returns the audio file extension
func (p *OpenAIProvider) Format() string {
	return "mp3"
}

// IsAvailable checks if the OpenAI API is accessible
func (p *OpenAIProvider) IsAvailable() error {
	if p.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}

	// We could make a test API call here, but that would use credits
	// For now, just check that we have a key
	return nil
}

// Close is a no-op; the HTTP client holds no resources
func (p *OpenAIProvider) Close() error {
	return nil
}
