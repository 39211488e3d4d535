package service

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// canonicalLanguage turns pt_BR, pt-br and pt-BR into pt-BR. A gettext modifier
// (sr@latin, ca@valencia) is kept lowercase after the tag. Only separators and case
// change, deprecated codes such as iw or tl are stored as declared.
func canonicalLanguage(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("%w: %w", ErrValidation, ErrMissingLanguage)
	}

	base, modifier, hasModifier := strings.Cut(code, "@")
	if base == "" || hasModifier && !validModifier(modifier) {
		return "", fmt.Errorf("%w: language %q: invalid modifier", ErrValidation, code)
	}

	tag, err := language.Raw.Parse(strings.ReplaceAll(base, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("%w: language %q: %v", ErrValidation, code, err)
	}

	if !hasModifier {
		return tag.String(), nil
	}

	return tag.String() + "@" + strings.ToLower(modifier), nil
}

func validModifier(modifier string) bool {
	if modifier == "" {
		return false
	}

	for _, r := range modifier {
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9') {
			return false
		}
	}

	return true
}
