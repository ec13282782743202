package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ConfirmDelete asks whether the task with the given title should be
// deleted. Anything other than an explicit yes, including EOF, is a no.
func ConfirmDelete(title string, reader io.Reader, writer io.Writer) bool {
	return PromptYesNoWithReader(fmt.Sprintf("Delete task %q?", title), reader, writer)
}

// PromptYesNoWithReader prompts for yes/no, re-asking on other input.
// Returns false when the reader is exhausted.
func PromptYesNoWithReader(prompt string, reader io.Reader, writer io.Writer) bool {
	scanner := bufio.NewScanner(reader)

	for {
		_, _ = fmt.Fprintf(writer, "%s (y/n): ", prompt)
		if !scanner.Scan() {
			return false
		}

		switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
	}
}
