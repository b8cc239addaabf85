package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// PromptResult contains the result of a user prompt interaction.
type PromptResult struct {
	// Accepted is true if the user accepted the prompt (typed "y" or "yes")
	Accepted bool
	// Cancelled is true if reading input failed (e.g., Ctrl+C)
	Cancelled bool
}

// Confirm asks a yes/no question on writer and reads the answer from reader.
// It returns immediately with Accepted=false in non-interactive (non-TTY)
// environments, and defaults to "No" when the user presses Enter without
// input. Valid acceptance inputs: "y", "yes" in any letter case.
func Confirm(writer io.Writer, reader io.Reader, prompt string) PromptResult {
	if !isTerminal(os.Stdin) {
		return PromptResult{Accepted: false}
	}

	fmt.Fprintf(writer, "? %s [y/N] ", prompt)

	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		if scanner.Err() != nil {
			return PromptResult{Cancelled: true}
		}
		// EOF without error - treat as decline (user pressed Ctrl+D)
		return PromptResult{Accepted: false}
	}

	input := strings.TrimSpace(scanner.Text())
	switch strings.ToLower(input) {
	case "y", "yes":
		return PromptResult{Accepted: true}
	default:
		return PromptResult{Accepted: false}
	}
}

// promptInteraction routes the provisioning engine's interaction port to the
// terminal: confirmations become y/N prompts, notifications become lines on
// the command's output stream.
type promptInteraction struct {
	out io.Writer
	in  io.Reader

	// assumeYes answers every confirmation positively (--yes).
	assumeYes bool
}

func (p promptInteraction) Confirm(prompt string) bool {
	if p.assumeYes {
		return true
	}
	return Confirm(p.out, p.in, prompt).Accepted
}

func (p promptInteraction) Notify(text string) {
	fmt.Fprintf(p.out, "%s\n", text)
}
