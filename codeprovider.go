package screener

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// CodeProvider supplies one-time verification codes when login hits a
// two-step checkpoint. This is the single intentional suspension point in
// the pipeline that needs a human; tests substitute a canned provider.
type CodeProvider interface {
	Code(prompt string) (string, error)
}

// TerminalCodeProvider asks the operator for a code on an interactive
// terminal, blocking until a line is entered.
type TerminalCodeProvider struct {
	In  io.Reader
	Out io.Writer
}

func (p *TerminalCodeProvider) Code(prompt string) (string, error) {
	if _, err := fmt.Fprint(p.Out, prompt); err != nil {
		return "", fmt.Errorf("write code prompt: %w", err)
	}
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read verification code: %w", err)
	}
	return strings.TrimSpace(line), nil
}
