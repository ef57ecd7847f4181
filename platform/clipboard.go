package platform

import "github.com/atotto/clipboard"

// SystemClipboard implements the Clipboard interface on top of the host
// clipboard (X11/Wayland, macOS and Windows)
type SystemClipboard struct{}

// NewClipboard creates a system clipboard instance
func NewClipboard() Clipboard {
	return SystemClipboard{}
}

// Get retrieves text from the clipboard
func (SystemClipboard) Get() (string, error) {
	return clipboard.ReadAll()
}

// Set sets text to the clipboard
func (SystemClipboard) Set(text string) error {
	return clipboard.WriteAll(text)
}
