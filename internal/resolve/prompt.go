package resolve

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TerminalPrompter asks the operator to disambiguate on the terminal.
// It reads one line at a time: a candidate number, or "skip".
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer

	scanner *bufio.Scanner
}

// NewTerminalPrompter creates a prompter over the given streams
// (stdin/stdout in production).
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{In: in, Out: out, scanner: bufio.NewScanner(in)}
}

// Choose implements Prompter. It blocks until the operator enters a
// valid candidate number or asks to skip. \a rings the terminal bell so
// a long unattended run gets noticed when it needs input.
func (p *TerminalPrompter) Choose(kind, exportTitle string, candidates []Candidate) (int, bool, error) {
	if len(candidates) == 0 {
		return p.confirmSkip(kind, exportTitle)
	}

	fmt.Fprintf(p.Out, "\nMANUAL INPUT REQUIRED: %q has %d matching Trakt %ss.\a\n",
		exportTitle, len(candidates), kind)

	for i, c := range candidates {
		fmt.Fprintf(p.Out, "  (%d) %s", i+1, c.Title)
		if c.Year != 0 {
			fmt.Fprintf(p.Out, " (%d)", c.Year)
		}
		if c.Slug != "" {
			fmt.Fprintf(p.Out, " - https://trakt.tv/%ss/%s", kind, c.Slug)
		}
		fmt.Fprintln(p.Out)
		if c.Overview != "" {
			fmt.Fprintf(p.Out, "      %s\n", truncate(c.Overview, 120))
		}
	}

	for {
		fmt.Fprintf(p.Out, "Select 1-%d (or \"skip\"): ", len(candidates))
		if !p.scanner.Scan() {
			if err := p.scanner.Err(); err != nil {
				return 0, false, err
			}
			return 0, false, io.EOF
		}

		input := strings.TrimSpace(p.scanner.Text())
		if strings.EqualFold(input, "skip") || strings.EqualFold(input, "s") {
			return 0, true, nil
		}

		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > len(candidates) {
			fmt.Fprintf(p.Out, "Please enter a number between 1 and %d, or \"skip\"\n", len(candidates))
			continue
		}
		return n - 1, false, nil
	}
}

// confirmSkip notifies the operator that the search came back empty
// and waits for an acknowledgement before moving on.
func (p *TerminalPrompter) confirmSkip(kind, exportTitle string) (int, bool, error) {
	fmt.Fprintf(p.Out, "\nMANUAL INPUT REQUIRED: no Trakt %s found for %q.\a\n", kind, exportTitle)
	fmt.Fprint(p.Out, "Press enter to skip it: ")
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return 0, false, err
		}
		return 0, false, io.EOF
	}
	return 0, true, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
