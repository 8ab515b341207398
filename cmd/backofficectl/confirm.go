package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

var bold = color.New(color.Bold).SprintFunc()

// promptConfirmer asks on the terminal. An unanswered prompt is declined once
// the timeout passes.
type promptConfirmer struct {
	in      *bufio.Reader
	out     io.Writer
	yes     bool
	timeout time.Duration
}

var _ backoffice.Confirmer = (*promptConfirmer)(nil)

func (p *promptConfirmer) Confirm(ctx context.Context, prompt backoffice.Prompt) (bool, error) {
	if p.yes {
		return true, nil
	}
	fmt.Fprintf(p.out, "%s\n%s [y/N]: ", bold(prompt.Title), prompt.Message)

	type reply struct {
		line string
		err  error
	}
	answers := make(chan reply, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		answers <- reply{line: line, err: err}
	}()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return false, nil
	case r := <-answers:
		if r.err != nil && r.line == "" {
			return false, nil
		}
		switch strings.ToLower(strings.TrimSpace(r.line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}
