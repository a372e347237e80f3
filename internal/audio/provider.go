package audio

import (
	"context"
	"fmt"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// Synthesize converts text to audio bytes. An empty voice selects the
	// provider's default for languageCode.
	Synthesize(ctx context.Context, text, languageCode, voice string) ([]byte, error)

	// Name returns the provider name
	Name() string

	// Format returns the file extension of the produced audio container
	Format() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error

	// Close releases any client resources
	Close() error
}

// VoiceLister is implemented by providers that can enumerate their voices
type VoiceLister interface {
	ListVoices(ctx context.Context, languageCode string) ([]Voice, error)
}

// Voice describes one selectable voice
type Voice struct {
	Name          string
	LanguageCodes []string
	Gender        string
}

// Config holds common configuration for audio providers
type Config struct {
	Provider string     // Provider name: "google", "openai", "gemini" or "espeak"
	Voices   VoiceTable // Per-language default voices

	// Google Cloud settings
	CredentialsPath string

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIBaseURL     string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "ash", "ballad", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer", "verse"
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts model

	// Gemini-specific settings
	GeminiKey   string
	GeminiModel string
	GeminiVoice string

	// espeak-ng settings
	ESpeakSpeed int

	// Decorators
	CacheDB         string // sqlite file for the synthesis cache, empty disables it
	BreakerFailures uint32 // consecutive failures before the breaker opens, 0 disables it
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:    "google",
		Voices:      DefaultVoiceTable(),
		OpenAIModel: "gpt-4o-mini-tts",
		OpenAIVoice: "alloy",
		OpenAISpeed: 1.0,
		GeminiModel: "gemini-2.5-flash-preview-tts",
		GeminiVoice: "Kore",
		ESpeakSpeed: 150,
	}
}

// NewProvider creates the appropriate audio provider based on configuration
// and wraps it with the cache and circuit breaker when configured.
func NewProvider(ctx context.Context, config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	var (
		provider Provider
		err      error
	)

	switch config.Provider {
	case "google", "":
		provider, err = NewGoogleProvider(ctx, config)
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		provider, err = NewOpenAIProvider(config)
	case "gemini":
		if config.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		provider, err = NewGeminiProvider(ctx, config)
	case "espeak":
		provider, err = NewESpeakProvider(config)
	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}
	if err != nil {
		return nil, err
	}
	if err := provider.IsAvailable(); err != nil {
		provider.Close()
		return nil, fmt.Errorf("%s provider unavailable: %w", provider.Name(), err)
	}

	if config.CacheDB != "" {
		cache, err := OpenCache(config.CacheDB)
		if err != nil {
			provider.Close()
			return nil, err
		}
		provider = NewCachedProvider(provider, cache)
	}

	return NewBreakerProvider(provider, config.BreakerFailures), nil
}

// Unwrap returns the innermost provider behind any decorators
func Unwrap(p Provider) Provider {
	for {
		w, ok := p.(interface{ Unwrap() Provider })
		if !ok {
			return p
		}
		p = w.Unwrap()
	}
}
