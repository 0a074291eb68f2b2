package format

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether w is an interactive terminal that should receive
// styled output. NO_COLOR and TERM=dumb disable styling.
func IsTTY(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	termEnv := os.Getenv("TERM")
	if termEnv == "dumb" || termEnv == "" {
		return false
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
