package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"

	"github.com/I-PingLin/Nano-Banana-Pro---AI-Marketing-Suite/internal/studio"
)

var ErrUnsupported = errors.New("system clipboard is not available")

// System writes to the clipboard of the machine running the server. Only
// useful when the server runs on the user's desktop.
type System struct{}

func (System) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

// Discard drops every write.
type Discard struct{}

func (Discard) WriteText(string) error { return nil }

// New returns System when enabled, Discard otherwise.
func New(enabled bool) studio.Clipboard {
	if enabled {
		return System{}
	}
	return Discard{}
}
