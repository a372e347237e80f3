package cli

import (
	"os"

	"github.com/spf13/viper"

	"codeberg.org/snonux/ankitts/internal/anki"
	"codeberg.org/snonux/ankitts/internal/audio"
)

const (
	defaultAnkiURL  = anki.DefaultURL
	defaultLanguage = audio.DefaultLanguage
)

// GetAnkiConnectURL returns the AnkiConnect endpoint
func GetAnkiConnectURL() string {
	if url := viper.GetString("anki.url"); url != "" {
		return url
	}
	return defaultAnkiURL
}

// GetCredentialsPath retrieves the Google service account key path from
// environment or config
func GetCredentialsPath() string {
	// First check environment variable
	if path := os.Getenv(audio.CredentialsEnvVar); path != "" {
		return path
	}

	// Then check config file
	return viper.GetString("audio.credentials")
}

// GetDefaultLanguage returns the language used when --language is not given
func GetDefaultLanguage() string {
	if lang := viper.GetString("tts.default_language"); lang != "" {
		return lang
	}
	return defaultLanguage
}

// GetVoiceTable builds the per-language default voices. The built-in table
// is overridden by VOICE_JA, VOICE_EN and VOICE_FR and extended by the
// tts.voices map of the config file.
func GetVoiceTable() audio.VoiceTable {
	table := audio.DefaultVoiceTable()
	table.DefaultLanguage = GetDefaultLanguage()

	legacy := []struct {
		key      string
		language string
	}{
		{"tts.voice_ja", "ja-JP"},
		{"tts.voice_en", "en-GB"},
		{"tts.voice_fr", "fr-FR"},
	}
	for _, l := range legacy {
		if v := viper.GetString(l.key); v != "" {
			table.Set(l.language, v)
		}
	}

	for lang, v := range viper.GetStringMapString("tts.voices") {
		if v != "" {
			table.Set(lang, v)
		}
	}

	return table
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("audio.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("audio.gemini_key")
}

// ProviderConfig assembles the audio provider configuration from flags,
// environment and config file
func ProviderConfig(flags *Flags) *audio.Config {
	config := audio.DefaultProviderConfig()

	config.Provider = flags.Provider
	if p := viper.GetString("audio.provider"); p != "" {
		config.Provider = p
	}
	config.Voices = GetVoiceTable()
	config.CredentialsPath = GetCredentialsPath()

	config.OpenAIKey = GetOpenAIKey()
	config.OpenAIBaseURL = viper.GetString("audio.openai_base_url")
	if m := viper.GetString("audio.openai_model"); m != "" {
		config.OpenAIModel = m
	}
	if v := viper.GetString("audio.openai_voice"); v != "" {
		config.OpenAIVoice = v
	}
	if s := viper.GetFloat64("audio.openai_speed"); s != 0 {
		config.OpenAISpeed = s
	}
	config.OpenAIInstruction = viper.GetString("audio.openai_instruction")

	config.GeminiKey = GetGeminiKey()
	if m := viper.GetString("audio.gemini_model"); m != "" {
		config.GeminiModel = m
	}
	if v := viper.GetString("audio.gemini_voice"); v != "" {
		config.GeminiVoice = v
	}

	if s := viper.GetInt("audio.espeak_speed"); s != 0 {
		config.ESpeakSpeed = s
	}

	config.CacheDB = viper.GetString("audio.cache_db")
	config.BreakerFailures = viper.GetUint32("audio.breaker_failures")

	return config
}
