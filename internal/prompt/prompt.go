// Package prompt assembles the generation request string from the extracted
// text, the chosen output type, and the target language.
package prompt

import (
	"fmt"
	"strings"

	"github.com/transformai/transformai/internal/languages"
	"github.com/transformai/transformai/internal/models"
)

// Build renders the prompt template:
//
//	Generate a {outputType} of the following text in {language}:
//
//	{text}
//
// with an Instructions paragraph appended only when extraInstructions is
// non-blank. langCode must be in the fixed language table; the prompt carries
// the display name so the model sees "Español" rather than "es".
//
// A text that trims to empty is the single required-field failure in the
// whole system and is rejected before any generation call is made.
func Build(text string, outputType models.OutputType, langCode, extraInstructions string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", models.NewValidationError("text", "please enter or upload some content")
	}

	if !outputType.Valid() {
		return "", models.NewValidationError("output_type", fmt.Sprintf("unknown output type %q", outputType))
	}

	langName, ok := languages.Name(langCode)
	if !ok {
		return "", models.NewValidationError("language", fmt.Sprintf("unsupported language code %q", langCode))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a %s of the following text in %s:\n\n%s", outputType, langName, text)

	if extra := strings.TrimSpace(extraInstructions); extra != "" {
		fmt.Fprintf(&b, "\n\nInstructions: %s", extra)
	}

	return b.String(), nil
}
