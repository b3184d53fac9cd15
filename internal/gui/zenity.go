package gui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/ncruces/zenity"

	"github.com/Weixin07/Webm2Gif/internal/config"
)

// zenityDialogs talks to the desktop through native dialogs.
type zenityDialogs struct{}

func (z *zenityDialogs) PickInputFile(startDir string) (string, error) {
	path, err := zenity.SelectFile(
		zenity.Title("Select a recording to convert"),
		zenity.Filename(startDir+string(filepath.Separator)),
		zenity.FileFilters{
			{Name: "WebM recordings", Patterns: []string{"*.webm"}, CaseFold: true},
			{Name: "All files", Patterns: []string{"*"}},
		},
	)
	return path, mapCancel(err)
}

func (z *zenityDialogs) PickSaveFile(suggested string) (string, error) {
	path, err := zenity.SelectFileSave(
		zenity.Title("Save GIF as"),
		zenity.Filename(suggested),
		zenity.ConfirmOverwrite(),
		zenity.FileFilters{
			{Name: "GIF images", Patterns: []string{"*.gif"}, CaseFold: true},
		},
	)
	return path, mapCancel(err)
}

func (z *zenityDialogs) PromptFPS(def int) (int, error) {
	return z.promptNumber(
		"Output frame rate (0 keeps the source rate)",
		def, config.MinFPS, config.MaxFPS,
	)
}

func (z *zenityDialogs) PromptMaxWidth(def int) (int, error) {
	return z.promptNumber(
		"Maximum output width in pixels (0 keeps the native width)",
		def, config.MinMaxWidth, config.MaxMaxWidth,
	)
}

// promptNumber re-asks until the answer parses and is in range.
func (z *zenityDialogs) promptNumber(prompt string, def, lo, hi int) (int, error) {
	text := strconv.Itoa(def)
	for {
		answer, err := zenity.Entry(prompt,
			zenity.Title("Webm2Gif"),
			zenity.EntryText(text),
		)
		if err != nil {
			return 0, mapCancel(err)
		}
		n, err := parseOptionalNumber(answer, def, lo, hi)
		if err != nil {
			zenity.Error(fmt.Sprintf("%v", err), zenity.Title("Webm2Gif"))
			text = answer
			continue
		}
		return n, nil
	}
}

func (z *zenityDialogs) Confirm(msg string) (bool, error) {
	err := zenity.Question(msg, zenity.Title("Webm2Gif"))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, zenity.ErrCanceled) {
		return false, nil
	}
	return false, err
}

func (z *zenityDialogs) ShowError(msg string) {
	zenity.Error(msg, zenity.Title("Webm2Gif"))
}

func (z *zenityDialogs) ShowSuccess(msg string) {
	zenity.Info(msg, zenity.Title("Webm2Gif"))
}

func mapCancel(err error) error {
	if errors.Is(err, zenity.ErrCanceled) {
		return ErrCancelled
	}
	return err
}
