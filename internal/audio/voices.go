package audio

import "strings"

// DefaultLanguage is used when neither flag nor configuration names one
const DefaultLanguage = "ja-JP"

// VoiceTable maps language codes to the voice used when none is requested.
// Language codes are matched case-insensitively.
type VoiceTable struct {
	DefaultLanguage string
	Voices          map[string]string
}

// DefaultVoiceTable returns the built-in Google Cloud voice defaults
func DefaultVoiceTable() VoiceTable {
	return VoiceTable{
		DefaultLanguage: DefaultLanguage,
		Voices: map[string]string{
			"ja-JP": "ja-JP-Wavenet-B",
			"en-GB": "en-GB-Wavenet-F",
			"fr-FR": "fr-FR-Wavenet-F",
		},
	}
}

// Lookup returns the configured voice for a language
func (t VoiceTable) Lookup(languageCode string) (string, bool) {
	if v, ok := t.Voices[languageCode]; ok {
		return v, true
	}
	for lang, v := range t.Voices {
		if strings.EqualFold(lang, languageCode) {
			return v, true
		}
	}
	return "", false
}

// Resolve returns the default voice for a language, falling back to the
// voice of the table's default language.
func (t VoiceTable) Resolve(languageCode string) string {
	if v, ok := t.Lookup(languageCode); ok {
		return v
	}
	v, _ := t.Lookup(t.defaultLanguage())
	return v
}

// Set stores the voice for a language, replacing any entry that differs
// only in case.
func (t *VoiceTable) Set(languageCode, voice string) {
	if t.Voices == nil {
		t.Voices = make(map[string]string)
	}
	for lang := range t.Voices {
		if strings.EqualFold(lang, languageCode) {
			delete(t.Voices, lang)
		}
	}
	t.Voices[languageCode] = voice
}

func (t VoiceTable) defaultLanguage() string {
	if t.DefaultLanguage == "" {
		return DefaultLanguage
	}
	return t.DefaultLanguage
}

// ResolveVoice picks the explicit voice when given, otherwise the table default
func ResolveVoice(table VoiceTable, languageCode, voice string) string {
	if voice != "" {
		return voice
	}
	return table.Resolve(languageCode)
}
