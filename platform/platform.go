// Package platform abstracts the host facilities the agent depends on.
package platform

// Clipboard provides access to the system clipboard
type Clipboard interface {
	Get() (string, error)
	Set(text string) error
}
