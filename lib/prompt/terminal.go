// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Terminal is a Prompt over an input and an output stream.
type Terminal struct {
	mu       sync.Mutex
	in       *bufio.Reader
	out      io.Writer
	color    bool
	renderer *lipgloss.Renderer
}

// NewTerminal returns a prompt reading answers from in and writing to
// out. Output is colored when out is a terminal and NO_COLOR is unset.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	profile := termenv.Ascii
	if file, ok := out.(*os.File); ok && term.IsTerminal(int(file.Fd())) && os.Getenv("NO_COLOR") == "" {
		profile = termenv.ANSI256
	}
	return NewTerminalWithProfile(in, out, profile)
}

// NewTerminalWithProfile returns a prompt with an explicit color
// profile. termenv.Ascii disables styling.
func NewTerminalWithProfile(in io.Reader, out io.Writer, profile termenv.Profile) *Terminal {
	// SetColorProfile pins the profile; the renderer otherwise
	// re-detects it from the environment.
	renderer := lipgloss.NewRenderer(out, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)
	return &Terminal{
		in:       bufio.NewReader(in),
		out:      out,
		color:    profile != termenv.Ascii,
		renderer: renderer,
	}
}

// YesOrNo prints question with a [Y/n] or [y/N] hint and reads one line.
// "y"/"yes" and "n"/"no" (any case) answer explicitly; anything else,
// including an empty line or end of input, selects defaultAnswer.
func (t *Terminal) YesOrNo(question string, defaultAnswer bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	hint := "[y/N]"
	if defaultAnswer {
		hint = "[Y/n]"
	}
	fmt.Fprintf(t.out, "%s %s ", t.strip(t.style(Yellow).Render(question)), hint)

	line, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		fmt.Fprintln(t.out)
		return defaultAnswer
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return defaultAnswer
	}
}

// Notice prints " ---> message" in bold.
func (t *Terminal) Notice(message string) {
	t.println(t.renderer.NewStyle().Bold(true).Render(" ---> " + message))
}

func (t *Terminal) Say(message string, style Style) {
	t.println(t.style(style).Render(message))
}

func (t *Terminal) Highlight(message string) string {
	return t.strip(t.renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Render(message))
}

// Diff prints a unified diff, colorized with the diff lexer when the
// output supports color.
func (t *Terminal) Diff(text string) {
	if !t.color {
		t.println(strings.TrimRight(text, "\n"))
		return
	}
	var buffer strings.Builder
	if err := quick.Highlight(&buffer, text, "diff", "terminal256", "monokai"); err != nil {
		t.println(strings.TrimRight(text, "\n"))
		return
	}
	t.println(strings.TrimRight(buffer.String(), "\n"))
}

func (t *Terminal) style(style Style) lipgloss.Style {
	base := t.renderer.NewStyle()
	switch style {
	case Red:
		return base.Foreground(lipgloss.Color("1"))
	case Green:
		return base.Foreground(lipgloss.Color("2"))
	case Yellow:
		return base.Foreground(lipgloss.Color("3"))
	case Magenta:
		return base.Foreground(lipgloss.Color("5"))
	case Cyan:
		return base.Foreground(lipgloss.Color("6"))
	default:
		return base
	}
}

func (t *Terminal) println(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, t.strip(text))
}

func (t *Terminal) strip(text string) string {
	if t.color {
		return text
	}
	return ansi.Strip(text)
}
