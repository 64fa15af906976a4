// Package terminal reads operator answers one line at a time
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter asks a question and returns the operator's line
type Prompter interface {
	Ask(prompt string) (string, error)
}

// LinePrompter writes prompts to out and reads answers from in
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a prompter over in and out
// Nil arguments default to stdin and stdout
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Ask prints prompt followed by a space and reads one line without its ending
// A final line without a newline is returned as is; io.EOF is only returned
// when nothing was read
func (p *LinePrompter) Ask(prompt string) (string, error) {
	if prompt != "" {
		if _, err := fmt.Fprint(p.out, prompt+" "); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ScriptedPrompter replays canned answers, for tests and non-interactive use
// Once the script is exhausted every Ask returns io.EOF
type ScriptedPrompter struct {
	Answers []string
	Prompts []string
}

// NewScriptedPrompter creates a prompter that replays answers in order
func NewScriptedPrompter(answers ...string) *ScriptedPrompter {
	return &ScriptedPrompter{Answers: answers}
}

// Ask records prompt and returns the next answer
func (p *ScriptedPrompter) Ask(prompt string) (string, error) {
	p.Prompts = append(p.Prompts, prompt)
	if len(p.Answers) == 0 {
		return "", io.EOF
	}
	answer := p.Answers[0]
	p.Answers = p.Answers[1:]
	return answer, nil
}
