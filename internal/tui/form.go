// Package tui holds the interactive pieces of the hureg CLI: huh forms for
// contacts, declarations and confirmations, spinners around registry round
// trips, and the full-screen config and auth views.
package tui

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// ErrAborted is returned when a user cancels an interactive flow.
var ErrAborted = errors.New("aborted by user")

// Accessible reports whether forms should run in accessible (line-based)
// mode, selected with the ACCESSIBLE environment variable.
func Accessible() bool {
	return os.Getenv("ACCESSIBLE") != ""
}

// runForm creates and runs a huh.Form, translating ErrUserAborted to ErrAborted.
func runForm(groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(Accessible()).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

// WithSpinner runs action behind a spinner written to out. The action's
// error is returned as is; cancelling the spinner yields ErrAborted.
func WithSpinner(ctx context.Context, out io.Writer, title string, action func(ctx context.Context) error) error {
	var actionErr error
	err := spinner.New().
		Title(title).
		Accessible(Accessible()).
		Output(out).
		ActionWithErr(func(spinCtx context.Context) error {
			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			stop := context.AfterFunc(spinCtx, cancel)
			defer stop()

			actionErr = action(runCtx)
			return nil
		}).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
			return ErrAborted
		}
		return err
	}
	return actionErr
}

// Confirm asks a yes/no question about a registry change. summary is shown
// above the question.
func Confirm(title, summary, affirmative string) (bool, error) {
	confirmed := false
	fields := []huh.Field{}
	if summary != "" {
		fields = append(fields, huh.NewNote().Title("Summary").Description(summary))
	}
	fields = append(fields, huh.NewConfirm().
		Title(title).
		Affirmative(affirmative).
		Negative("Cancel").
		Value(&confirmed))

	if err := runForm(huh.NewGroup(fields...)); err != nil {
		return false, err
	}
	return confirmed, nil
}
