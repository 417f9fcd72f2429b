package oracle

import (
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/mindforge/forge_api/shared"
)

// StripFences removes markdown code fences around a JSON answer.
func StripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// DecodeStrictJSON parses model output into dest with no repair. Anything
// that is not valid JSON after fence stripping is an error.
func DecodeStrictJSON(text string, dest interface{}) error {
	cleaned := StripFences(text)
	if cleaned == "" {
		return ErrEmpty
	}
	if err := shared.JSONAPI.UnmarshalFromString(cleaned, dest); err != nil {
		return fmt.Errorf("oracle: malformed response: %w", err)
	}
	return nil
}

// DecodeJSON parses model output into dest. Output that is not valid JSON
// gets one repair pass before the call is treated as failed. Only use it where
// a partially recovered answer is still safe to act on.
func DecodeJSON(text string, dest interface{}) error {
	cleaned := StripFences(text)
	if cleaned == "" {
		return ErrEmpty
	}

	err := shared.JSONAPI.UnmarshalFromString(cleaned, dest)
	if err == nil {
		return nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(cleaned)
	if repairErr != nil {
		return fmt.Errorf("oracle: malformed response: %w", err)
	}
	if err := shared.JSONAPI.UnmarshalFromString(repaired, dest); err != nil {
		return fmt.Errorf("oracle: malformed response after repair: %w", err)
	}
	return nil
}
