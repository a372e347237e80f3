package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/ankitts/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ankitts [deck]",
		Short: "Add text-to-speech audio to Anki notes",
		Long: `ankitts reads a text field from every note in an Anki deck, synthesizes
speech for it and attaches the audio to another field via AnkiConnect.

Anki must be running with the AnkiConnect add-on installed. Google Cloud
TTS is the default provider and needs GOOGLE_APPLICATION_CREDENTIALS.

Examples:
  ankitts "Japanese::Core" --text-field Sentence --audio-field Audio
  ankitts French --text-field Front --audio-field Audio --language fr-FR --overwrite
  ankitts --batch decks.txt --text-field Sentence --audio-field Audio
  ankitts --list-voices --language ja-JP`,
		Args:          cobra.MaximumNArgs(1),
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.ankitts.yaml)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: DEBUG, INFO, WARNING, ERROR, CRITICAL")

	// Local flags
	cmd.Flags().StringVar(&flags.TextField, "text-field", "", "Note field containing the text to speak")
	cmd.Flags().StringVar(&flags.AudioField, "audio-field", "", "Note field receiving the audio")
	cmd.Flags().StringVar(&flags.Language, "language", "", "Language code (default from DEFAULT_LANGUAGE, else "+defaultLanguage+")")
	cmd.Flags().BoolVar(&flags.Overwrite, "overwrite", false, "Replace audio already attached to the audio field")
	cmd.Flags().StringVar(&flags.Voice, "voice", "", "Voice name (default: per-language voice table)")
	cmd.Flags().StringVar(&flags.Provider, "provider", flags.Provider, "TTS provider: google, openai, gemini or espeak")
	cmd.Flags().String("anki-url", "", "AnkiConnect URL (default from ANKI_CONNECT_URL, else "+defaultAnkiURL+")")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Process decks listed in file (one per line)")
	cmd.Flags().BoolVar(&flags.ListVoices, "list-voices", false, "List voices offered by the provider and exit")
	cmd.Flags().StringVar(&flags.CacheDB, "cache-db", "", "SQLite file caching synthesized audio (disabled when empty)")
	cmd.Flags().Uint32Var(&flags.BreakerFailures, "breaker-failures", 0, "Stop calling the provider after this many consecutive failures (0 disables)")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("audio.provider", cmd.Flags().Lookup("provider"))
	viper.BindPFlag("audio.cache_db", cmd.Flags().Lookup("cache-db"))
	viper.BindPFlag("audio.breaker_failures", cmd.Flags().Lookup("breaker-failures"))
	viper.BindPFlag("anki.url", cmd.Flags().Lookup("anki-url"))
}

// bindLegacyEnv maps the plain environment variable names onto config keys
func bindLegacyEnv() {
	viper.BindEnv("anki.url", "ANKITTS_ANKI_URL", "ANKI_CONNECT_URL")
	viper.BindEnv("audio.credentials", "ANKITTS_AUDIO_CREDENTIALS", "GOOGLE_APPLICATION_CREDENTIALS")
	viper.BindEnv("tts.default_language", "ANKITTS_TTS_DEFAULT_LANGUAGE", "DEFAULT_LANGUAGE")
	viper.BindEnv("tts.voice_ja", "ANKITTS_TTS_VOICE_JA", "VOICE_JA")
	viper.BindEnv("tts.voice_en", "ANKITTS_TTS_VOICE_EN", "VOICE_EN")
	viper.BindEnv("tts.voice_fr", "ANKITTS_TTS_VOICE_FR", "VOICE_FR")
	viper.BindEnv("audio.openai_key", "ANKITTS_AUDIO_OPENAI_KEY", "OPENAI_API_KEY")
	viper.BindEnv("audio.gemini_key", "ANKITTS_AUDIO_GEMINI_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY")
}

// InitConfig initializes viper configuration. Variables from a .env file
// in the working directory are loaded first without overriding the
// environment.
func InitConfig(cfgFile string) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}

		// Search config with name ".ankitts" (without extension)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ankitts")
	}

	// Environment variables
	viper.SetEnvPrefix("ANKITTS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	bindLegacyEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
