package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/peterh/liner"
)

// Confirm asks a yes/no question and reports whether the answer was yes.
//
// On a terminal the question goes through liner, so Ctrl-C aborts it.
// Otherwise one line is read from the input. Only "y" and "yes" accept;
// EOF, an aborted prompt and a cancelled context decline.
func (o *IO) Confirm(ctx context.Context, question string) bool {
	if ctx.Err() != nil || o.in == nil {
		return false
	}

	prompt := question + " [y/N]: "

	var (
		answer string
		err    error
	)

	if isTerminal(o.in) && isTerminal(o.out) {
		o.flushWarningsStart()

		line := liner.NewLiner()
		line.SetCtrlCAborts(true)

		answer, err = line.Prompt(prompt)
		_ = line.Close()

		if err != nil {
			return false
		}
	} else {
		o.Printf("%s", prompt)

		answer, err = bufio.NewReader(o.in).ReadString('\n')
		o.Println()

		if err != nil && (!errors.Is(err, io.EOF) || answer == "") {
			return false
		}
	}

	if ctx.Err() != nil {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
