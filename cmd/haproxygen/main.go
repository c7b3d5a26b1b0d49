package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/davidllorente/haproxygen/internal/cli"
)

// main is the entrypoint for the haproxygen binary.
func main() {
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and
// error handling. The app panics on critical startup errors (an unloadable
// runtime configuration), so we recover here to provide a clean exit
// message to the user.
func run(outW, logW io.Writer, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("a critical startup error occurred: %v", r)
		}
	}()

	root := cli.NewRootCmd(outW, logW)
	root.SetArgs(args)
	return root.Execute()
}
