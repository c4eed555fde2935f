package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/labaccess/internal/prompt"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	New(ctx context.Context) error
	Saved(ctx context.Context) error
	Use(ctx context.Context, arg string) error
	ToggleAuto(ctx context.Context) error
	Show(ctx context.Context) error
	Payload(ctx context.Context) error
}

// runREPL reads commands line by line and dispatches them to a. The loop
// exits on EOF, on ctx cancellation or when the user types "exit" or "quit".
//
//	new           enter an identity and generate a code
//	saved | list  list saved identities
//	use <n>       generate a code for saved identity n
//	auto          toggle auto-renewal
//	show          draw the current code
//	payload       print the raw payload
//	exit | quit   leave the program
//
// Handler errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("qr %s> ", statusFn()))
		line, err := prompt.ReadLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: new, saved, use <n>, auto, show, payload, exit")

		case "new", "n":
			err = a.New(ctx)

		case "saved", "list", "l":
			err = a.Saved(ctx)

		case "use":
			if len(args) == 0 {
				printlnFn("Usage: use <n>")
				continue
			}
			err = a.Use(ctx, args[0])

		case "auto":
			err = a.ToggleAuto(ctx)

		case "show":
			err = a.Show(ctx)

		case "payload":
			err = a.Payload(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
