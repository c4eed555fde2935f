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

type execIface interface {
	Scan(ctx context.Context, raw string) error
	Stats(ctx context.Context) error
	Last(ctx context.Context, arg string) error
	Health(ctx context.Context) error
	VerifyStudent(ctx context.Context, email string) error
	VerifyHelper(ctx context.Context, email string) error
}

// runREPL dispatches commands and treats every other non-empty line as a
// scanned payload.
//
//	stats                   today's entries and exits
//	last [n]                the n most recent records (default 10)
//	health                  probe the backend
//	verify-student <email>  check a student registration
//	verify-helper <email>   check a helper registration
//	exit | quit             leave the program
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("lector %s> ", statusFn()))
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
			printlnFn("Scan a QR code, or use: stats, last [n], health, verify-student <email>, verify-helper <email>, exit")

		case "stats":
			err = a.Stats(ctx)

		case "last":
			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			err = a.Last(ctx, arg)

		case "health":
			err = a.Health(ctx)

		case "verify-student", "verify-helper":
			if len(args) == 0 {
				printlnFn(fmt.Sprintf("Usage: %s <email>", cmd))
				continue
			}
			if cmd == "verify-student" {
				err = a.VerifyStudent(ctx, args[0])
			} else {
				err = a.VerifyHelper(ctx, args[0])
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			err = a.Scan(ctx, line)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
