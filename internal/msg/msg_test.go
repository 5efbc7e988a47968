package msg

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	oldOut, oldErr, oldNoColor := Stdout, Stderr, color.NoColor
	var out, errOut bytes.Buffer
	Stdout, Stderr, color.NoColor = &out, &errOut, true
	t.Cleanup(func() {
		Stdout, Stderr, color.NoColor = oldOut, oldErr, oldNoColor
		SetVerbose(false)
	})
	return &out, &errOut
}

func TestIndentWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &IndentWriter{Indent: "  | ", W: &buf}

	w.Write([]byte("main.c:3: error: boom\n  3 | int x = \n"))
	w.Write([]byte("partial "))
	w.Write([]byte("line\n"))

	assert.Equal(t, "  | main.c:3: error: boom\n  |   3 | int x = \n  | partial line\n", buf.String())
}

func TestTaggedOutputGoesToStderr(t *testing.T) {
	out, errOut := capture(t)

	Warn("dependency %q has a mismatched name", "m")
	Error("boom")
	Debug("hidden")

	assert.Empty(t, out.String())
	assert.Equal(t, "warn: dependency \"m\" has a mismatched name\nerror: boom\n", errOut.String())
}

func TestDebugWhenVerbose(t *testing.T) {
	_, errOut := capture(t)
	SetVerbose(true)
	assert.True(t, Verbose())

	Debug("fresh: %s", "main.c")
	assert.Equal(t, "debug: fresh: main.c\n", errOut.String())
}

func TestStatus(t *testing.T) {
	out, _ := capture(t)
	Status("Compiling", "%s", "src/main.c")
	assert.Equal(t, "   Compiling src/main.c\n", out.String())
}
