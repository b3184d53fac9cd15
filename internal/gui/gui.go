// Package gui abstracts the interactive collaborator used when no input is
// given on the command line: native file-picker and prompt dialogs when a
// display is available, terminal prompts otherwise.
package gui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Weixin07/Webm2Gif/internal/config"
)

// ErrCancelled is returned when the user dismisses a dialog or prompt.
// Callers treat it as a clean exit, not a failure.
var ErrCancelled = errors.New("cancelled by user")

// Dialogs is the interactive surface of the program. Both implementations
// return ErrCancelled when the user backs out; every other error is a real
// dialog failure.
type Dialogs interface {
	// PickInputFile asks for the recording to convert, starting in startDir.
	PickInputFile(startDir string) (string, error)

	// PickSaveFile asks where to write the GIF, suggesting a default path.
	PickSaveFile(suggested string) (string, error)

	// PromptFPS asks for the output frame rate. 0 means keep the source
	// rate; def is the pre-filled suggestion.
	PromptFPS(def int) (int, error)

	// PromptMaxWidth asks for the width cap. 0 means keep the native width.
	PromptMaxWidth(def int) (int, error)

	// Confirm asks a yes/no question.
	Confirm(msg string) (bool, error)

	ShowError(msg string)
	ShowSuccess(msg string)
}

// New returns the dialog implementation for this session: native dialogs
// unless they were disabled, in which case terminal prompts.
func New(cfg *config.Config) Dialogs {
	if cfg.NoGUI {
		return &termDialogs{}
	}
	return &zenityDialogs{}
}

// parseOptionalNumber interprets a prompt answer as an integer within
// [lo, hi]. Empty input selects def. Shared by both dialog backends.
func parseOptionalNumber(answer string, def, lo, hi int) (int, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return def, nil
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", answer)
	}
	if n != 0 && (n < lo || n > hi) {
		return 0, fmt.Errorf("%d out of range [%d, %d]", n, lo, hi)
	}
	return n, nil
}
