package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	Whoami(ctx context.Context) error
	Ping(ctx context.Context) error
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Get(ctx context.Context, path string) error
	Post(ctx context.Context, path string) error
	Put(ctx context.Context, path string) error
}

// runREPL reads commands from scanner until EOF, "exit" or "quit".
// Errors returned by command handlers are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("anon %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn("Available commands: whoami, ping, register, login, logout, get <path>, post <path>, put <path>, exit")
		case "whoami":
			err = a.Whoami(ctx)
		case "ping":
			err = a.Ping(ctx)
		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "get", "post", "put":
			if len(args) == 0 {
				printlnFn(fmt.Sprintf("Usage: %s <path>", cmd))
				continue
			}
			switch cmd {
			case "get":
				err = a.Get(ctx, args[0])
			case "post":
				err = a.Post(ctx, args[0])
			default:
				err = a.Put(ctx, args[0])
			}
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
