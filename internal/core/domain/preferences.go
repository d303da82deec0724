package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

const unknownDescription = "Unknown"

// Theme selects the client's colour scheme.
type Theme string

// Available themes.
const (
	// ThemeLight is the bright default appearance.
	ThemeLight Theme = "light"

	// ThemeDark is the dimmed appearance.
	ThemeDark Theme = "dark"
)

// IsValid returns true if the theme is recognised.
func (t Theme) IsValid() bool {
	switch t {
	case ThemeLight, ThemeDark:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t Theme) String() string {
	return string(t)
}

// Description returns a human-readable description of the theme.
func (t Theme) Description() string {
	switch t {
	case ThemeLight:
		return "Light (bright appearance)"
	case ThemeDark:
		return "Dark (dimmed appearance)"
	default:
		return unknownDescription
	}
}

// AllThemes returns all available themes.
func AllThemes() []Theme {
	return []Theme{ThemeLight, ThemeDark}
}

// Language is the user's display-language tag (e.g. "en", "hi").
// The set of supported languages is owned by the client application, so
// any non-empty tag is structurally valid here.
type Language string

// IsValid returns true if the language carries a usable value.
func (l Language) IsValid() bool {
	return l != ""
}

// String returns the string representation.
func (l Language) String() string {
	return string(l)
}

// Preferences is the settings record the engine caches locally and
// reconciles with the remote store. LastUpdated is caller-supplied and
// acts purely as a last-write marker; the engine never arbitrates
// conflicting clocks, the last write physically wins.
type Preferences struct {
	// Language is the user's display language.
	Language Language `json:"language"`

	// Theme is the user's colour scheme.
	Theme Theme `json:"theme"`

	// LastUpdated is milliseconds since epoch, supplied by the caller.
	LastUpdated int64 `json:"lastUpdated"`
}

// Validate checks the record against the schema every store shares.
func (p Preferences) Validate() error {
	if !p.Language.IsValid() {
		return &FieldError{Field: "language", Reason: "must be a non-empty string"}
	}
	if !p.Theme.IsValid() {
		return &FieldError{Field: "theme", Reason: fmt.Sprintf("must be one of %v", AllThemes())}
	}
	if p.LastUpdated < 0 {
		return &FieldError{Field: "lastUpdated", Reason: "must not be negative"}
	}
	return nil
}

// Record converts the preferences to their untyped wire shape.
func (p Preferences) Record() RawRecord {
	return RawRecord{
		"language":    string(p.Language),
		"theme":       string(p.Theme),
		"lastUpdated": p.LastUpdated,
	}
}

// RawRecord is an untyped preferences document as decoded from a storage
// adapter, prior to schema validation.
type RawRecord map[string]any

// FieldError reports why a preferences record failed schema validation.
type FieldError struct {
	// Field is the offending record field.
	Field string

	// Reason describes the rejection.
	Reason string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("preferences field %q %s", e.Field, e.Reason)
}

// Unwrap ties field errors to ErrInvalidPreferences for errors.Is checks.
func (e *FieldError) Unwrap() error {
	return ErrInvalidPreferences
}

// ValidateRecord checks an untyped record against the preferences schema
// and returns the typed equivalent. Absence, a missing field, a wrong
// type, and an unknown enum value each surface as a *FieldError naming
// the offending field, so callers can log precise rejection reasons.
func ValidateRecord(rec RawRecord) (Preferences, error) {
	if rec == nil {
		return Preferences{}, &FieldError{Field: "record", Reason: "is absent"}
	}

	lang, err := stringField(rec, "language")
	if err != nil {
		return Preferences{}, err
	}
	if !Language(lang).IsValid() {
		return Preferences{}, &FieldError{Field: "language", Reason: "must be a non-empty string"}
	}

	theme, err := stringField(rec, "theme")
	if err != nil {
		return Preferences{}, err
	}
	if !Theme(theme).IsValid() {
		return Preferences{}, &FieldError{Field: "theme", Reason: fmt.Sprintf("must be one of %v", AllThemes())}
	}

	updated, err := intField(rec, "lastUpdated")
	if err != nil {
		return Preferences{}, err
	}
	if updated < 0 {
		return Preferences{}, &FieldError{Field: "lastUpdated", Reason: "must not be negative"}
	}

	return Preferences{
		Language:    Language(lang),
		Theme:       Theme(theme),
		LastUpdated: updated,
	}, nil
}

func stringField(rec RawRecord, field string) (string, error) {
	v, ok := rec[field]
	if !ok {
		return "", &FieldError{Field: field, Reason: "is missing"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &FieldError{Field: field, Reason: "must be a string"}
	}
	return s, nil
}

// intField accepts the numeric encodings adapters produce: encoding/json
// decodes numbers to float64 (or json.Number), DynamoDB items carry int64.
func intField(rec RawRecord, field string) (int64, error) {
	v, ok := rec[field]
	if !ok {
		return 0, &FieldError{Field: field, Reason: "is missing"}
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, &FieldError{Field: field, Reason: "must be an integer"}
		}
		return int64(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, &FieldError{Field: field, Reason: "must be an integer"}
		}
		return i, nil
	default:
		return 0, &FieldError{Field: field, Reason: "must be a number"}
	}
}
