// Package cmdline dispatches a program's subcommands, each parsed into its
// own go-arg struct.
package cmdline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	arg "github.com/alexflint/go-arg"

	"github.com/SAFedorov/logochemy/golib/errors"
)

var (
	// ErrHelp is returned by Dispatch after help has been written.
	ErrHelp = errors.New("help requested")
	// ErrUsage wraps errors caused by a malformed command line.
	ErrUsage = errors.New("usage error")
)

// Command represents an action that can be run from the command line
type Command struct {
	Name     string
	Synopsis string
	// Args is a pointer to a go-arg struct that also handles the command.
	Args Handler
}

// Handler represents a function that gets called for an action
type Handler interface {
	Handle() error
}

// Validator is the interface for custom validation of command line arguments
type Validator interface {
	Validate() error
}

// Prog is the base name of the running binary.
func Prog() string {
	if len(os.Args) > 0 {
		return filepath.Base(os.Args[0])
	}
	return "program"
}

func writeUsage(w io.Writer, prog string, cmds ...Command) {
	fmt.Fprintf(w, "Usage: %s COMMAND [ARGS]\n", prog)
	fmt.Fprintf(w, "Command can be one of:\n")
	for _, cmd := range cmds {
		fmt.Fprintf(w, "  %-20s %s\n", cmd.Name, cmd.Synopsis)
	}
	fmt.Fprintf(w, "  %-20s %s\n", "help", "display this help and exit")
	fmt.Fprintf(w, "  %-20s %s\n", "help COMMAND", "display help for command and exit")
}

func find(name string, cmds []Command) (Command, bool) {
	for _, c := range cmds {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// Dispatch runs the command named by args[0] with the remaining args.
// Usage and help go to w. Command line problems are wrapped in ErrUsage;
// errors from the handler are returned as they are.
func Dispatch(prog string, args []string, w io.Writer, cmds ...Command) error {
	if len(args) == 0 {
		writeUsage(w, prog, cmds...)
		return errors.Wrapf(ErrUsage, "no command provided")
	}

	var help bool
	action := args[0]
	if action == "help" || action == "-h" || action == "--help" {
		if len(args) < 2 {
			writeUsage(w, prog, cmds...)
			return ErrHelp
		}
		help = true
		action = args[1]
	}

	cmd, ok := find(action, cmds)
	if !ok {
		writeUsage(w, prog, cmds...)
		return errors.Wrapf(ErrUsage, "unknown command %s", action)
	}

	parser, err := arg.NewParser(arg.Config{Program: prog + " " + action}, cmd.Args)
	if err != nil {
		return errors.Wrapf(err, "building parser for %s", action)
	}
	if help {
		parser.WriteHelp(w)
		return ErrHelp
	}

	switch err := parser.Parse(args[1:]); {
	case err == arg.ErrHelp:
		parser.WriteHelp(w)
		return ErrHelp
	case err != nil:
		parser.WriteUsage(w)
		return errors.Wrapf(ErrUsage, "%s: %v", action, err)
	}

	if v, ok := cmd.Args.(Validator); ok {
		if err := v.Validate(); err != nil {
			parser.WriteUsage(w)
			return errors.Wrapf(ErrUsage, "%s: %v", action, err)
		}
	}

	return cmd.Args.Handle()
}

// MustDispatch dispatches one of the commands from os.Args and exits on
// failure: 0 after help, 2 on usage errors, 1 when the command fails.
func MustDispatch(cmds ...Command) {
	err := Dispatch(Prog(), os.Args[1:], os.Stdout, cmds...)
	switch {
	case err == nil:
	case errors.Is(err, ErrHelp):
		os.Exit(0)
	case errors.Is(err, ErrUsage):
		fmt.Fprintln(os.Stderr, "\nError:", err)
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
