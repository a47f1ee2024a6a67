package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads interactive answers from a line-based input stream.
// All prompts are written to the configured writer so they interleave
// cleanly with status output.
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
	// secretFD is the file descriptor used for hidden input.
	// Negative when hidden input is unavailable (tests, pipes).
	secretFD int
}

// NewPrompter creates a prompter bound to stdin/stdout.
func NewPrompter() *Prompter {
	return &Prompter{
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		secretFD: int(os.Stdin.Fd()),
	}
}

// NewPrompterFrom creates a prompter over arbitrary streams.
// Hidden input falls back to plain line reads.
func NewPrompterFrom(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		reader:   bufio.NewReader(in),
		out:      out,
		secretFD: -1,
	}
}

// Ask prompts for a single line of text and returns it trimmed.
func (p *Prompter) Ask(prompt string) (string, error) {
	fmt.Fprintf(p.out, "%s ", Question(prompt))
	return p.readLine()
}

// AskSecret prompts for a line of text without echoing it to the
// terminal. When the input is not a terminal it behaves like Ask.
func (p *Prompter) AskSecret(prompt string) (string, error) {
	fmt.Fprintf(p.out, "%s ", Question(prompt))
	if p.secretFD >= 0 && term.IsTerminal(p.secretFD) {
		b, err := term.ReadPassword(p.secretFD)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("failed to read secret input: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	return p.readLine()
}

// Confirm asks a yes/no question and re-prompts until the answer is
// recognizable. Accepted answers: y, yes, n, no (case-insensitive).
func (p *Prompter) Confirm(prompt string) (bool, error) {
	for {
		fmt.Fprintf(p.out, "%s %s ", Question(prompt), Dim("[y/n]"))
		answer, err := p.readLine()
		if err != nil {
			return false, err
		}
		if v, ok := parseYesNo(answer); ok {
			return v, nil
		}
		fmt.Fprintln(p.out, StatusWarning("Please answer y or n."))
	}
}

// ConfirmDefault asks a yes/no question where an empty answer selects
// the given default.
func (p *Prompter) ConfirmDefault(prompt string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	for {
		fmt.Fprintf(p.out, "%s %s ", Question(prompt), Dim(hint))
		answer, err := p.readLine()
		if err != nil {
			return false, err
		}
		if answer == "" {
			return def, nil
		}
		if v, ok := parseYesNo(answer); ok {
			return v, nil
		}
		fmt.Fprintln(p.out, StatusWarning("Please answer y or n."))
	}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func parseYesNo(answer string) (value, ok bool) {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	default:
		return false, false
	}
}
