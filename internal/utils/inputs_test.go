package utils

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

// TestPromptYesNoYes verifies yes responses
func TestPromptYesNoYes(t *testing.T) {
	yesInputs := []string{"y\n", "Y\n", "yes\n", "Yes\n", "YES\n"}

	for _, input := range yesInputs {
		t.Run(input[:len(input)-1], func(t *testing.T) {
			reader := strings.NewReader(input)
			if !PromptYesNoWithReader("Test?", reader, io.Discard) {
				t.Errorf("PromptYesNo with input %q = false, want true", input)
			}
		})
	}
}

// TestPromptYesNoNo verifies no responses
func TestPromptYesNoNo(t *testing.T) {
	noInputs := []string{"n\n", "N\n", "no\n", "No\n", "NO\n"}

	for _, input := range noInputs {
		t.Run(input[:len(input)-1], func(t *testing.T) {
			reader := strings.NewReader(input)
			if PromptYesNoWithReader("Test?", reader, io.Discard) {
				t.Errorf("PromptYesNo with input %q = true, want false", input)
			}
		})
	}
}

// TestPromptYesNoRetriesInvalid verifies invalid input re-prompts
func TestPromptYesNoRetriesInvalid(t *testing.T) {
	var out bytes.Buffer
	if !PromptYesNoWithReader("Test?", strings.NewReader("maybe\ny\n"), &out) {
		t.Error("expected yes after retry")
	}
	if strings.Count(out.String(), "Test? (y/n):") != 2 {
		t.Errorf("expected two prompts, got %q", out.String())
	}
}

// TestConfirmDeleteEOF verifies an exhausted reader means no
func TestConfirmDeleteEOF(t *testing.T) {
	var out bytes.Buffer
	if ConfirmDelete("Buy milk", strings.NewReader(""), &out) {
		t.Error("EOF should not confirm")
	}
	if !strings.Contains(out.String(), `Delete task "Buy milk"?`) {
		t.Errorf("prompt = %q", out.String())
	}
}
