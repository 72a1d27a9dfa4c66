package clipboard

import "github.com/atotto/clipboard"

// Fallback is a clipboard reached without revisor's own tool selection.
type Fallback interface {
	Supported() bool
	ReadAll() (string, error)
	WriteAll(text string) error
}

type libraryFallback struct{}

// NewLibraryFallback returns a Fallback backed by github.com/atotto/clipboard,
// which adds xsel on Unix and the native clipboard on Windows.
func NewLibraryFallback() Fallback {
	return libraryFallback{}
}

func (libraryFallback) Supported() bool { return !clipboard.Unsupported }

func (libraryFallback) ReadAll() (string, error) { return clipboard.ReadAll() }

func (libraryFallback) WriteAll(text string) error { return clipboard.WriteAll(text) }
