package console

import (
	"errors"
	"io"

	"github.com/chzyer/readline"
)

// LineReader reads one line of input after showing a prompt.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// errQuit ends the menu loop without an error.
var errQuit = errors.New("console: quit")

// NewReadline creates an interactive reader with line editing. historyFile
// may be empty to disable history.
func NewReadline(historyFile string) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
}

// isEndOfInput reports whether err means the user closed the input.
func isEndOfInput(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt)
}
