package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/ankitts/internal/anki"
	"codeberg.org/snonux/ankitts/internal/audio"
	"codeberg.org/snonux/ankitts/internal/batch"
	"codeberg.org/snonux/ankitts/internal/cli"
	"codeberg.org/snonux/ankitts/internal/logging"
	"codeberg.org/snonux/ankitts/internal/processor"
	"codeberg.org/snonux/ankitts/internal/voices"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, audio.ErrCredentialsNotSet) || errors.Is(err, audio.ErrCredentialsNotFound) {
			logging.Critical("Cannot start", "err", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	if err := flags.Validate(args); err != nil {
		return err
	}
	if err := logging.Setup(flags.LogLevel); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	language := flags.Language
	if language == "" {
		language = cli.GetDefaultLanguage()
	}

	// The provider is built first so credential problems surface before
	// AnkiConnect is contacted
	provider, err := audio.NewProvider(ctx, cli.ProviderConfig(flags))
	if err != nil {
		return err
	}
	defer provider.Close()

	// Handle --list-voices flag
	if flags.ListVoices {
		lang := language
		if !cmd.Flags().Changed("language") {
			lang = ""
		}
		return voices.NewLister(provider, os.Stdout).ListAvailableVoices(ctx, lang)
	}

	client := anki.NewClient(cli.GetAnkiConnectURL())
	slog.Debug("Using AnkiConnect", "url", client.URL(), "provider", provider.Name(), "language", language)

	proc := processor.NewProcessor(client, provider)
	opts := processor.Options{
		TextField:  flags.TextField,
		AudioField: flags.AudioField,
		Language:   language,
		Voice:      flags.Voice,
		Overwrite:  flags.Overwrite,
	}

	// Handle batch processing
	if flags.BatchFile != "" {
		decks, err := batch.ReadDeckFile(flags.BatchFile)
		if err != nil {
			return err
		}
		_, err = proc.ProcessDecks(ctx, decks, opts)
		return err
	}

	opts.Deck = args[0]
	_, err = proc.ProcessDeck(ctx, opts)
	return err
}
