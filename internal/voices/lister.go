package voices

import (
	"context"
	"fmt"
	"io"
	"sort"

	"codeberg.org/snonux/ankitts/internal/audio"
)

// Lister handles listing available provider voices
type Lister struct {
	provider audio.Provider
	out      io.Writer
}

// NewLister creates a new voice lister writing to out
func NewLister(provider audio.Provider, out io.Writer) *Lister {
	return &Lister{
		provider: provider,
		out:      out,
	}
}

// ListAvailableVoices prints the provider's voices grouped by language.
// An empty languageCode lists every language.
func (l *Lister) ListAvailableVoices(ctx context.Context, languageCode string) error {
	vl, ok := audio.Unwrap(l.provider).(audio.VoiceLister)
	if !ok {
		return fmt.Errorf("provider %s cannot list voices", l.provider.Name())
	}

	voices, err := vl.ListVoices(ctx, languageCode)
	if err != nil {
		return fmt.Errorf("failed to list voices: %w", err)
	}

	// Group by language
	byLanguage := make(map[string][]audio.Voice)
	for _, v := range voices {
		langs := v.LanguageCodes
		if len(langs) == 0 {
			langs = []string{"unknown"}
		}
		for _, lang := range langs {
			byLanguage[lang] = append(byLanguage[lang], v)
		}
	}

	languages := make([]string, 0, len(byLanguage))
	for lang := range byLanguage {
		languages = append(languages, lang)
	}
	sort.Strings(languages)

	fmt.Fprintf(l.out, "Available %s voices:\n", l.provider.Name())
	if len(languages) == 0 {
		fmt.Fprintln(l.out, "  No voices found")
		return nil
	}

	for _, lang := range languages {
		fmt.Fprintf(l.out, "\n%s:\n", lang)
		group := byLanguage[lang]
		sort.Slice(group, func(i, j int) bool { return group[i].Name < group[j].Name })
		for _, v := range group {
			if v.Gender != "" {
				fmt.Fprintf(l.out, "  %s (%s)\n", v.Name, v.Gender)
			} else {
				fmt.Fprintf(l.out, "  %s\n", v.Name)
			}
		}
	}

	return nil
}
