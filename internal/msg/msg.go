package msg

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Stdout receives progress lines, Stderr receives diagnostics and failures.
var (
	Stdout io.Writer = color.Output
	Stderr io.Writer = color.Error
)

var verbose bool

// SetVerbose enables Debug output
func SetVerbose(v bool) { verbose = v }

func Verbose() bool { return verbose }

func tagged(w io.Writer, tag, format string, a ...any) {
	fmt.Fprint(w, tag)
	fmt.Fprint(w, ": ")
	fmt.Fprintf(w, format, a...)
	fmt.Fprint(w, "\n")
}

func Error(format string, a ...any) {
	tagged(Stderr, color.HiRedString("error"), format, a...)
}

func Warn(format string, a ...any) {
	tagged(Stderr, color.YellowString("warn"), format, a...)
}

func Info(format string, a ...any) {
	tagged(Stderr, color.HiGreenString("info"), format, a...)
}

func Debug(format string, a ...any) {
	if !verbose {
		return
	}
	tagged(Stderr, color.HiBlackString("debug"), format, a...)
}

// Status prints a progress line with a right-aligned verb, e.g. "   Compiling src/main.c"
func Status(verb, format string, a ...any) {
	fmt.Fprintf(Stdout, "%s %s\n", color.HiGreenString("%12s", verb), fmt.Sprintf(format, a...))
}

// IndentWriter prefixes every line written through it
type IndentWriter struct {
	Indent    string
	W         io.Writer
	didIndent bool
}

func (w *IndentWriter) Write(p []byte) (n int, err error) {
	start := 0
	for i, c := range p {
		if !w.didIndent {
			if _, err := io.WriteString(w.W, w.Indent); err != nil {
				return start, err
			}
			w.didIndent = true
		}
		if c == '\n' || c == '\r' {
			if _, err := w.W.Write(p[start : i+1]); err != nil {
				return start, err
			}
			start = i + 1
			w.didIndent = false
		}
	}
	if start < len(p) {
		if _, err := w.W.Write(p[start:]); err != nil {
			return start, err
		}
	}
	return len(p), nil
}
