package installer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	apperrors "github.com/Turing-Drive/autodrive-license-client/internal/errors"
)

// Prompter supplies the interactive answers the installer needs. A terminal
// implementation reads the operator's stdin; tests inject scripted answers.
type Prompter interface {
	// Confirm asks a yes/no question. An empty answer is "no".
	Confirm(question string) (bool, error)

	// Select asks the operator to pick one of options, returning its index.
	Select(question string, options []string) (int, error)
}

// TerminalPrompter prompts on an io stream pair, normally stdin/stdout.
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalPrompter returns a prompter on stdin/stdout.
func NewTerminalPrompter() *TerminalPrompter {
	return NewTerminalPrompterIO(os.Stdin, os.Stdout)
}

// NewTerminalPrompterIO returns a prompter on the given streams.
func NewTerminalPrompterIO(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: bufio.NewReader(in), out: out}
}

// Confirm implements Prompter. The default on empty input is negative, so
// an operator mashing Enter never mutates the filesystem.
func (p *TerminalPrompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	line, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Select implements Prompter, re-asking until a valid number is entered.
func (p *TerminalPrompter) Select(question string, options []string) (int, error) {
	fmt.Fprintln(p.out, question)
	for i, option := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, option)
	}
	for {
		fmt.Fprintf(p.out, "Choice [1-%d]: ", len(options))
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintln(p.out, "Invalid choice.")
	}
}

func (p *TerminalPrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		// EOF on a closed stdin counts as a decline, not a failure.
		if err == io.EOF {
			return "", apperrors.ErrUserAborted
		}
		return "", err
	}
	return line, nil
}

// ScriptedPrompter answers from pre-determined lists; for tests and
// non-interactive invocations.
type ScriptedPrompter struct {
	Confirms   []bool
	Selections []int

	confirmIdx int
	selectIdx  int
}

// Confirm implements Prompter.
func (p *ScriptedPrompter) Confirm(string) (bool, error) {
	if p.confirmIdx >= len(p.Confirms) {
		return false, nil
	}
	answer := p.Confirms[p.confirmIdx]
	p.confirmIdx++
	return answer, nil
}

// Select implements Prompter.
func (p *ScriptedPrompter) Select(_ string, options []string) (int, error) {
	if p.selectIdx >= len(p.Selections) {
		return 0, fmt.Errorf("installer: no scripted selection left")
	}
	choice := p.Selections[p.selectIdx]
	p.selectIdx++
	if choice < 0 || choice >= len(options) {
		return 0, fmt.Errorf("installer: scripted selection %d out of range", choice)
	}
	return choice, nil
}
