// Package validation implements the pure form-validation rules for the
// authentication workflow. Every function is deterministic, performs no
// I/O, and is safe to call on every keystroke; an empty string result
// means the value is valid.
package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pr-poehali-dev/vds-server-api/internal/core/domain"
)

// Canonical field-level error messages. The presentation layer renders
// these verbatim, so they are part of the contract.
const (
	MsgIdentifierRequired = "identifier is required"
	MsgUsernameTooShort   = "username must be at least 3 characters"
	MsgUsernameTooLong    = "username must not exceed 20 characters"
	MsgUsernameBadChars   = "username may contain only letters, digits and underscores"
	MsgEmailInvalid       = "invalid e-mail format (example@mail.com)"
	MsgEmailTooLong       = "e-mail must not exceed 50 characters"
	MsgNameRequired       = "name is required"
	MsgNameTooShort       = "name must be at least 2 characters"
	MsgPasswordRequired   = "password is required"
	MsgPasswordTooShort   = "password must be at least 8 characters"
	MsgPasswordNoLower    = "password must contain lowercase letters"
	MsgPasswordNoUpper    = "password must contain uppercase letters"
	MsgPasswordNoDigit    = "password must contain digits"
	MsgConfirmRequired    = "password confirmation is required"
	MsgConfirmMismatch    = "passwords do not match"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 20
	emailMaxLen    = 50
	passwordMinLen = 8
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Username validates a plain username: length bounds [3,20] and the
// letters/digits/underscore charset.
func Username(v string) string {
	if v == "" {
		return MsgIdentifierRequired
	}
	if len(v) < usernameMinLen {
		return MsgUsernameTooShort
	}
	if len(v) > usernameMaxLen {
		return MsgUsernameTooLong
	}
	if !usernameRe.MatchString(v) {
		return MsgUsernameBadChars
	}
	return ""
}

// Email validates an e-mail address against the workflow's pattern.
func Email(v string) string {
	if strings.TrimSpace(v) == "" {
		return MsgIdentifierRequired
	}
	if !emailRe.MatchString(v) {
		return MsgEmailInvalid
	}
	if len(v) > emailMaxLen {
		return MsgEmailTooLong
	}
	return ""
}

// Identifier validates the authentication identifier. Values containing
// '@' are treated as e-mail addresses, everything else as usernames.
func Identifier(v string) string {
	if v == "" {
		return MsgIdentifierRequired
	}
	if strings.Contains(v, "@") {
		return Email(v)
	}
	return Username(v)
}

// DisplayName validates the user-facing name: non-blank after trimming,
// at least two characters long.
func DisplayName(v string) string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return MsgNameRequired
	}
	if len([]rune(trimmed)) < 2 {
		return MsgNameTooShort
	}
	return ""
}

// Password validates a password against the fixed rule order: presence,
// length, lowercase, uppercase, digit. The first failing rule wins.
func Password(v string) string {
	if v == "" {
		return MsgPasswordRequired
	}
	if len(v) < passwordMinLen {
		return MsgPasswordTooShort
	}
	if !containsFunc(v, unicode.IsLower) {
		return MsgPasswordNoLower
	}
	if !containsFunc(v, unicode.IsUpper) {
		return MsgPasswordNoUpper
	}
	if !containsFunc(v, unicode.IsDigit) {
		return MsgPasswordNoDigit
	}
	return ""
}

// ConfirmPassword validates the confirmation field against the password.
func ConfirmPassword(confirm, password string) string {
	if confirm == "" {
		return MsgConfirmRequired
	}
	if confirm != password {
		return MsgConfirmMismatch
	}
	return ""
}

func containsFunc(s string, f func(rune) bool) bool {
	for _, r := range s {
		if f(r) {
			return true
		}
	}
	return false
}

// StrengthLabel buckets a 0..5 strength score.
type StrengthLabel string

const (
	StrengthWeak      StrengthLabel = "weak"
	StrengthMedium    StrengthLabel = "medium"
	StrengthGood      StrengthLabel = "good"
	StrengthExcellent StrengthLabel = "excellent"
)

// Strength scores a password 0..5: one point each for length >= 8,
// lowercase, uppercase, digit, and symbol.
func Strength(password string) (int, StrengthLabel) {
	score := 0
	if len(password) >= passwordMinLen {
		score++
	}
	if containsFunc(password, unicode.IsLower) {
		score++
	}
	if containsFunc(password, unicode.IsUpper) {
		score++
	}
	if containsFunc(password, unicode.IsDigit) {
		score++
	}
	if containsFunc(password, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		score++
	}
	return score, strengthLabel(score)
}

func strengthLabel(score int) StrengthLabel {
	switch {
	case score <= 1:
		return StrengthWeak
	case score <= 3:
		return StrengthMedium
	case score == 4:
		return StrengthGood
	default:
		return StrengthExcellent
	}
}

// Fields carries the raw form values fed into per-mode validation.
type Fields struct {
	Identifier      string
	DisplayName     string
	Password        string
	ConfirmPassword string
}

// Form validates the subset of fields relevant to the given mode and
// returns a full error map. The form is valid iff every value is empty.
func Form(mode domain.AuthMode, f Fields) map[domain.Field]string {
	errs := map[domain.Field]string{
		domain.FieldIdentifier:      Identifier(f.Identifier),
		domain.FieldDisplayName:     "",
		domain.FieldPassword:        "",
		domain.FieldConfirmPassword: "",
	}

	switch mode {
	case domain.ModeLogin:
		if f.Password == "" {
			errs[domain.FieldPassword] = MsgPasswordRequired
		}
	case domain.ModeRegister:
		errs[domain.FieldDisplayName] = DisplayName(f.DisplayName)
		errs[domain.FieldPassword] = Password(f.Password)
		errs[domain.FieldConfirmPassword] = ConfirmPassword(f.ConfirmPassword, f.Password)
	case domain.ModeForgot:
		// identifier only
	}

	return errs
}

// Valid reports whether an error map produced by Form contains no errors.
func Valid(errs map[domain.Field]string) bool {
	for _, msg := range errs {
		if msg != "" {
			return false
		}
	}
	return true
}
