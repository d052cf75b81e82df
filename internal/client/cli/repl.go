package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Reset(ctx context.Context) error
	Submit(ctx context.Context) error
	Results(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads one command per line and dispatches it. Handler errors are
// printed and the loop goes on; it returns on exit, quit or end of input.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "survey%s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}

		var cmdErr error
		switch parts[0] {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: submit, results, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, reset, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "reset":
			cmdErr = a.Reset(ctx)

		case "submit":
			cmdErr = a.Submit(ctx)

		case "results":
			cmdErr = a.Results(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", parts[0])
		}

		if cmdErr != nil {
			fmt.Fprintln(w, "error:", cmdErr)
		}
		if err != nil {
			return
		}
	}
}
