package cli

import (
	"errors"
	"fmt"

	"codeberg.org/snonux/ankitts/internal/logging"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	LogLevel   string
	BatchFile  string
	ListVoices bool

	// Note fields
	TextField  string
	AudioField string

	// Synthesis flags
	Language  string
	Voice     string
	Overwrite bool
	Provider  string

	// Decorators
	CacheDB         string
	BreakerFailures uint32
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel: "INFO",
		Provider: "google",
	}
}

// Validate checks flag combinations before any work starts
func (f *Flags) Validate(args []string) error {
	if _, err := logging.ParseLevel(f.LogLevel); err != nil {
		return err
	}

	if f.ListVoices {
		return nil
	}

	if f.TextField == "" || f.AudioField == "" {
		return errors.New("--text-field and --audio-field are required")
	}
	if f.TextField == f.AudioField {
		return fmt.Errorf("--text-field and --audio-field must differ, both are %q", f.TextField)
	}

	switch {
	case f.BatchFile != "" && len(args) > 0:
		return errors.New("give either a deck name or --batch, not both")
	case f.BatchFile == "" && len(args) == 0:
		return errors.New("a deck name or --batch file is required")
	}

	return nil
}
