package audio

import (
	"fmt"
	"strings"
)

// ValidateText rejects text that would produce silent audio
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}
	return nil
}
