package evaluator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/skrblv/bilimGO/internal/types"
)

// ErrUnsupportedTaskType is returned for task types without a server-side
// scoring rule (speed_typing is timed by the client).
var ErrUnsupportedTaskType = errors.New("no server-side scoring rule for task type")

// Verdict is the outcome of checking one submission. RevealedAnswer is set
// only for incorrect answers of non-executable task types; code and
// constructor answers are withheld because their literal text is not a
// canonical form.
type Verdict struct {
	IsCorrect      bool    `json:"is_correct"`
	RevealedAnswer *string `json:"correct_answer,omitempty"`
}

// Evaluate checks a user submission against the stored correct answer for
// the given task type. Sandbox failures on code tasks never surface as
// errors: broken or ambiguous submissions count as incorrect.
func Evaluate(ctx context.Context, taskType, correctAnswer, userAnswer string) (Verdict, error) {
	switch taskType {
	case types.TaskTypeMultipleChoice, types.TaskTypeTrueFalse, types.TaskTypeTextInput, types.TaskTypeFillInBlank:
		ok := normalizeText(userAnswer) == normalizeText(correctAnswer)
		return verdict(ok, correctAnswer, true), nil
	case types.TaskTypeConstructor:
		ok := normalizeCompact(userAnswer) == normalizeCompact(correctAnswer)
		return verdict(ok, correctAnswer, false), nil
	case types.TaskTypeCode:
		ok := codeScopesMatch(ctx, correctAnswer, DecodeEscapes(userAnswer))
		return verdict(ok, correctAnswer, false), nil
	default:
		return Verdict{}, fmt.Errorf("%w: %q", ErrUnsupportedTaskType, taskType)
	}
}

func verdict(ok bool, correctAnswer string, reveal bool) Verdict {
	v := Verdict{IsCorrect: ok}
	if !ok && reveal {
		v.RevealedAnswer = &correctAnswer
	}
	return v
}

// normalizeText trims surrounding whitespace and case-folds.
func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeCompact strips all whitespace and case-folds. Constructor
// answers arrive as concatenated code blocks, so interior spacing carries
// no meaning.
func normalizeCompact(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// DecodeEscapes converts literal backslash escapes (e.g. the two
// characters `\n`) into their control-character form. The transport layer
// may deliver code submissions as escaped strings.
func DecodeEscapes(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case '\'':
			b.WriteByte('\'')
		case '"':
			b.WriteByte('"')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
