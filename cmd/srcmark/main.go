package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"srcmark/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "srcmark",
	Short: "Source-context diagnostics toolkit",
	Long:  `srcmark tracks source buffers and renders diagnostics with line/column context`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the column count of the terminal behind f, or 0 when
// f is not a terminal.
func terminalWidth(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w < 0 {
		return 0
	}
	return w
}
