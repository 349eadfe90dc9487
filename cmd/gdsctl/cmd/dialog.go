package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// terminalDialog Asks on the terminal whether to overwrite a concurrent change
type terminalDialog struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func newTerminalDialog(in io.Reader, out io.Writer, assumeYes bool) *terminalDialog {
	return &terminalDialog{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

func (d *terminalDialog) ConfirmOverwrite(ctx context.Context) (bool, error) {
	_, _ = fmt.Fprint(d.out, "Settings were changed by someone else since they were loaded.\n")
	if d.assumeYes {
		_, _ = fmt.Fprintln(d.out, "Overwriting (--yes)")
		return true, nil
	}

	_, _ = fmt.Fprint(d.out, "Overwrite them with your changes? [y/N] ")

	type answer struct {
		line string
		err  error
	}
	answers := make(chan answer, 1)
	// Stdin cannot be interrupted: on cancellation this read is abandoned until the process exits.
	go func() {
		line, err := d.in.ReadString('\n')
		answers <- answer{line, err}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a := <-answers:
		if a.err != nil && a.err != io.EOF {
			return false, a.err
		}
		response := strings.TrimSpace(strings.ToLower(a.line))
		return response == "y" || response == "yes", nil
	}
}
