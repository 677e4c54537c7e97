package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/appleseedlab/cpp-to-c/pkg/util/source"
)

// GetFlag gets an expected boolean flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected uint flag, or panic if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetStringArray gets an expected string array flag, or panic if an error
// arises.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	loc := err.SourceFile().LocationOf(span.Start())
	// Determine how much of the line is covered by the error.
	width := span.Length()
	if start := span.Start() - line.Start(); start+width > line.Length() {
		width = line.Length() - start
	}
	//
	if width == 0 {
		width = 1
	}
	// Print error + location
	fmt.Fprintf(os.Stderr, "%s: %s\n", loc, err.Message())
	// Print line
	fmt.Fprintln(os.Stderr, line.String())
	// Print indent (todo: account for tabs)
	fmt.Fprint(os.Stderr, strings.Repeat(" ", span.Start()-line.Start()))
	// Print highlight
	if term.IsTerminal(int(os.Stderr.Fd())) {
		fmt.Fprintf(os.Stderr, "\033[31m%s\033[0m\n", strings.Repeat("^", width))
	} else {
		fmt.Fprintln(os.Stderr, strings.Repeat("^", width))
	}
}
