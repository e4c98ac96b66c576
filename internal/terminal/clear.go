// Package terminal provides prompt helpers: reading answers, reading
// secrets without echo, and wiping prompts off the screen afterwards.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ClearPreviousLines erases textLength characters of prompt and answer that
// were echoed above the cursor, accounting for line wrapping at the current
// terminal width and for the newline left by Enter.
func ClearPreviousLines(textLength int) {
	termWidth := 80
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		termWidth = width
	}

	totalLines := int(math.Ceil(float64(textLength) / float64(termWidth)))
	if totalLines < 1 {
		totalLines = 1
	}
	linesToClear := totalLines + 1

	for i := 0; i < linesToClear; i++ {
		fmt.Print("\r\x1b[2K")
		if i < linesToClear-1 {
			fmt.Print("\x1b[1A")
		}
	}
}

// Prompt writes label and reads one trimmed line from r.
func Prompt(r *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadSecret prompts for a value without echoing it. When stdin is not a
// terminal (piped input) it falls back to reading a plain line from r.
func ReadSecret(r *bufio.Reader, w io.Writer, label string) (string, error) {
	if !IsInteractive() {
		return Prompt(r, w, label)
	}
	fmt.Fprint(w, label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
