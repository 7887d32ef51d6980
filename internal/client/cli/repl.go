package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
)

var errUsage = errors.New("usage")

// commands is what the REPL dispatches to; *App implements it.
type commands interface {
	isLoggedIn() bool
	fail(ctx context.Context, err error)

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error

	List(ctx context.Context) error
	More(ctx context.Context) error
	Search(ctx context.Context, term string) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Poster(ctx context.Context, args []string) error
}

// printlnFn and printFn are seams for REPL output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

const (
	helpGuest  = "Available commands: register, login, help, exit"
	helpMember = "Available commands: list, more, search [term], show <id>, add, edit <id>, delete <id>, poster <id> <file>, whoami, logout, help, exit"
)

// runREPL reads commands until EOF, "exit" or "quit". Command errors are
// handed to a.fail; the loop itself never stops on them.
func runREPL(ctx context.Context, a commands, promptFn func() string, scanner *bufio.Scanner) {
	for {
		printFn(promptFn())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if cmd == "help" {
			if a.isLoggedIn() {
				printlnFn(helpMember)
			} else {
				printlnFn(helpGuest)
			}
			continue
		}

		err := dispatch(ctx, a, cmd, args)
		switch {
		case err == nil:
		case errors.Is(err, errUsage):
			printlnFn(err.Error())
		default:
			a.fail(ctx, err)
		}
	}
}

func dispatch(ctx context.Context, a commands, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	}

	if !isKnown(cmd) {
		printlnFn("Unknown command:", cmd)
		return nil
	}
	if !a.isLoggedIn() {
		printlnFn("Please log in first")
		return nil
	}

	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "whoami":
		return a.WhoAmI(ctx)
	case "l", "list":
		return a.List(ctx)
	case "m", "more":
		return a.More(ctx)
	case "search":
		return a.Search(ctx, strings.Join(args, " "))
	case "show":
		return a.Show(ctx, args)
	case "add":
		return a.Add(ctx)
	case "edit":
		return a.Edit(ctx, args)
	case "delete":
		return a.Delete(ctx, args)
	case "poster":
		return a.Poster(ctx, args)
	}
	return nil
}

func isKnown(cmd string) bool {
	switch cmd {
	case "logout", "whoami", "l", "list", "m", "more", "search", "show", "add", "edit", "delete", "poster":
		return true
	}
	return false
}
