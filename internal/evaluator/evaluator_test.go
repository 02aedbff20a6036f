package evaluator

import (
	"context"
	"errors"
	"testing"

	"github.com/skrblv/bilimGO/internal/types"
)

func TestEvaluateTextTypesIgnoreCaseAndSurroundingSpace(t *testing.T) {
	ctx := context.Background()
	for _, taskType := range []string{
		types.TaskTypeMultipleChoice,
		types.TaskTypeTrueFalse,
		types.TaskTypeTextInput,
		types.TaskTypeFillInBlank,
	} {
		v, err := Evaluate(ctx, taskType, "Paris", "  paRIS \n")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", taskType, err)
		}
		if !v.IsCorrect {
			t.Fatalf("%s: expected correct verdict", taskType)
		}
		if v.RevealedAnswer != nil {
			t.Fatalf("%s: correct answers must not reveal the solution", taskType)
		}
	}
}

func TestEvaluateTextTypeInteriorSpaceMatters(t *testing.T) {
	v, err := Evaluate(context.Background(), types.TaskTypeTextInput, "New York", "NewYork")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.IsCorrect {
		t.Fatalf("interior whitespace must be significant for text input")
	}
	if v.RevealedAnswer == nil || *v.RevealedAnswer != "New York" {
		t.Fatalf("incorrect text answers must reveal the stored answer, got %v", v.RevealedAnswer)
	}
}

func TestEvaluateConstructorIgnoresAllWhitespace(t *testing.T) {
	v, err := Evaluate(context.Background(), types.TaskTypeConstructor, "for i in range(10):\n  print(i)", "for i in range(10): print( i )")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.IsCorrect {
		t.Fatalf("constructor comparison must ignore all whitespace")
	}
}

func TestEvaluateConstructorNeverRevealsAnswer(t *testing.T) {
	v, err := Evaluate(context.Background(), types.TaskTypeConstructor, "a = 1", "b = 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.IsCorrect {
		t.Fatalf("expected incorrect verdict")
	}
	if v.RevealedAnswer != nil {
		t.Fatalf("constructor verdicts must not reveal the stored answer")
	}
}

func TestEvaluateCodeMatchesEquivalentPrograms(t *testing.T) {
	reference := "x = 2 + 3\ny = [i for i in range(x)]"
	submission := "y = [0, 1, 2, 3, 4]\nx = 5"
	v, err := Evaluate(context.Background(), types.TaskTypeCode, reference, submission)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.IsCorrect {
		t.Fatalf("programs with identical variable state must match")
	}
}

func TestEvaluateCodeDecodesEscapedSubmission(t *testing.T) {
	reference := "x = 1\ny = 2"
	submission := `x = 1\ny = 2`
	v, err := Evaluate(context.Background(), types.TaskTypeCode, reference, submission)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.IsCorrect {
		t.Fatalf("escaped newlines in the submission must be decoded before execution")
	}
}

func TestEvaluateCodeIgnoresHelperFunctions(t *testing.T) {
	reference := "total = 6"
	submission := "def add(a, b):\n    return a + b\ntotal = add(1, 5)"
	v, err := Evaluate(context.Background(), types.TaskTypeCode, reference, submission)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.IsCorrect {
		t.Fatalf("helper functions must not affect the binding comparison")
	}
}

func TestEvaluateCodeExtraBindingIsWrong(t *testing.T) {
	v, err := Evaluate(context.Background(), types.TaskTypeCode, "x = 1", "x = 1\nleak = 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.IsCorrect {
		t.Fatalf("extra variable bindings must fail the comparison")
	}
}

func TestEvaluateCodeBrokenSubmissionIsWrongNotError(t *testing.T) {
	for _, submission := range []string{
		"x = ",               // syntax error
		"x = undefined_name", // runtime error
		"while True:\n    pass", // step budget
	} {
		v, err := Evaluate(context.Background(), types.TaskTypeCode, "x = 1", submission)
		if err != nil {
			t.Fatalf("%q: sandbox failures must not surface as errors: %v", submission, err)
		}
		if v.IsCorrect {
			t.Fatalf("%q: expected incorrect verdict", submission)
		}
		if v.RevealedAnswer != nil {
			t.Fatalf("%q: code verdicts must not reveal the stored answer", submission)
		}
	}
}

func TestEvaluateSpeedTypingIsUnsupported(t *testing.T) {
	_, err := Evaluate(context.Background(), types.TaskTypeSpeedTyping, "", "whatever")
	if !errors.Is(err, ErrUnsupportedTaskType) {
		t.Fatalf("expected ErrUnsupportedTaskType, got %v", err)
	}
}

func TestEvaluateUnknownTypeIsUnsupported(t *testing.T) {
	_, err := Evaluate(context.Background(), "matching", "a", "a")
	if !errors.Is(err, ErrUnsupportedTaskType) {
		t.Fatalf("expected ErrUnsupportedTaskType, got %v", err)
	}
}

func TestDecodeEscapes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`a\nb`, "a\nb"},
		{`a\tb`, "a\tb"},
		{`a\\n`, `a\n`},
		{`a\'b\"c`, `a'b"c`},
		{`a\qb`, `a\qb`},
		{`trailing\`, `trailing\`},
		{"plain", "plain"},
	}
	for _, tc := range cases {
		if got := DecodeEscapes(tc.in); got != tc.want {
			t.Fatalf("DecodeEscapes(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
