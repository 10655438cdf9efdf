// Package confirm provides the yes/no gate that guards destructive operations.
package confirm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ErrNotInteractive is returned by a terminal prompt whose input is not a terminal
var ErrNotInteractive = errors.New("confirmation requires an interactive terminal")

// Confirmer decides whether a destructive operation may proceed
type Confirmer interface {
	Confirm(warning string) (bool, error)
}

// Static is a pre-decided answer, used for --yes and in tests
type Static bool

// Confirm returns the fixed answer
func (s Static) Confirm(string) (bool, error) {
	return bool(s), nil
}

// Prompt asks on out and reads a single line answer from in
type Prompt struct {
	in  io.Reader
	out io.Writer

	// requireTTY refuses to read when in is a file that is not a terminal
	requireTTY bool
}

// NewPrompt creates a prompt over arbitrary streams
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: in, out: out}
}

// NewTerminalPrompt creates a prompt on stdin/stdout that refuses piped input
func NewTerminalPrompt() *Prompt {
	return &Prompt{in: os.Stdin, out: os.Stdout, requireTTY: true}
}

// Confirm prints warning and accepts "y" or "yes" (case-insensitive)
func (p *Prompt) Confirm(warning string) (bool, error) {
	if p.requireTTY && !isTerminal(p.in) {
		return false, ErrNotInteractive
	}

	color.New(color.FgYellow, color.Bold).Fprintln(p.out, warning)
	fmt.Fprint(p.out, "Proceed? (y/n): ")

	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		fmt.Fprintln(p.out)
		return false, fmt.Errorf("read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		fmt.Fprintln(p.out, "Cleanup aborted.")
		return false, nil
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
