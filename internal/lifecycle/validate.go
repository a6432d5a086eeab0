package lifecycle

import (
	"strings"
	"time"
	"unicode"

	"github.com/juniperhq/chorequest/internal/apperror"
	"github.com/juniperhq/chorequest/internal/model"
)

// ValidateTitle enforces the template title rules: 2–100 characters after
// trimming, and at least one letter (purely numeric or symbolic titles are
// rejected).
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	runes := []rune(title)
	if len(runes) < 2 || len(runes) > 100 {
		return apperror.Validation("title must be between 2 and 100 characters")
	}

	for _, r := range runes {
		if unicode.IsLetter(r) {
			return nil
		}
	}
	return apperror.Validation("title must contain at least one letter")
}

// normalizeDueTime validates an "HH:MM" due time, defaulting empty input to
// midnight.
func normalizeDueTime(s string) (string, error) {
	if s == "" {
		return "00:00", nil
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return "", apperror.Validation("invalid due time %q: expected HH:MM", s)
	}
	return t.Format(timeLayout), nil
}

func normalizeDifficulty(d model.Difficulty) (model.Difficulty, error) {
	if d == "" {
		return model.DifficultyEasy, nil
	}
	if _, ok := model.ParseDifficulty(string(d)); !ok {
		return "", apperror.Validation("unknown difficulty %q", d)
	}
	return d, nil
}
