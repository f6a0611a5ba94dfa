// Package view binds the streaming loop to a user facing surface.
package view

import "fmt"

// Binder receives lifecycle and status updates from the streaming loop.
// Implementations must be safe for use from the loop goroutine while other
// goroutines read their state.
type Binder interface {
	ShowLoading()
	HideLoading()
	ShowPermissionPrompt()
	HidePermissionPrompt()
	ShowStream()
	HideStream()
	SetStatusText(text string)
	// ReportError sets the status to "<context>: <err>".
	ReportError(context string, err error)
}

// ErrorText formats an error report the way ReportError displays it.
func ErrorText(context string, err error) string {
	return fmt.Sprintf("%s: %v", context, err)
}

// Multi fans every call out to each binder in order.
type Multi []Binder

var _ Binder = Multi(nil)

func (m Multi) ShowLoading() {
	for _, b := range m {
		b.ShowLoading()
	}
}

func (m Multi) HideLoading() {
	for _, b := range m {
		b.HideLoading()
	}
}

func (m Multi) ShowPermissionPrompt() {
	for _, b := range m {
		b.ShowPermissionPrompt()
	}
}

func (m Multi) HidePermissionPrompt() {
	for _, b := range m {
		b.HidePermissionPrompt()
	}
}

func (m Multi) ShowStream() {
	for _, b := range m {
		b.ShowStream()
	}
}

func (m Multi) HideStream() {
	for _, b := range m {
		b.HideStream()
	}
}

func (m Multi) SetStatusText(text string) {
	for _, b := range m {
		b.SetStatusText(text)
	}
}

func (m Multi) ReportError(context string, err error) {
	for _, b := range m {
		b.ReportError(context, err)
	}
}
