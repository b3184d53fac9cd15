package gui

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/fatih/color"

	"github.com/Weixin07/Webm2Gif/internal/config"
)

// termDialogs runs the same flow as the native dialogs, on the terminal.
type termDialogs struct{}

func (t *termDialogs) PickInputFile(startDir string) (string, error) {
	var path string
	q := &survey.Input{
		Message: "Recording to convert:",
		Default: startDir,
		Help:    "Path to a .webm file",
	}
	err := survey.AskOne(q, &path, survey.WithValidator(survey.Required))
	return path, mapInterrupt(err)
}

func (t *termDialogs) PickSaveFile(suggested string) (string, error) {
	var path string
	q := &survey.Input{
		Message: "Save GIF as:",
		Default: suggested,
	}
	if err := survey.AskOne(q, &path, survey.WithValidator(survey.Required)); err != nil {
		return "", mapInterrupt(err)
	}
	if _, err := os.Stat(path); err == nil {
		overwrite := false
		c := &survey.Confirm{Message: fmt.Sprintf("%s exists, overwrite?", path)}
		if err := survey.AskOne(c, &overwrite); err != nil {
			return "", mapInterrupt(err)
		}
		if !overwrite {
			return "", ErrCancelled
		}
	}
	return path, nil
}

func (t *termDialogs) PromptFPS(def int) (int, error) {
	return t.promptNumber(
		"Output frame rate (0 keeps the source rate):",
		def, config.MinFPS, config.MaxFPS,
	)
}

func (t *termDialogs) PromptMaxWidth(def int) (int, error) {
	return t.promptNumber(
		"Maximum output width in pixels (0 keeps the native width):",
		def, config.MinMaxWidth, config.MaxMaxWidth,
	)
}

func (t *termDialogs) promptNumber(prompt string, def, lo, hi int) (int, error) {
	q := &survey.Input{Message: prompt, Default: strconv.Itoa(def)}
	validate := func(ans interface{}) error {
		s, _ := ans.(string)
		_, err := parseOptionalNumber(s, def, lo, hi)
		return err
	}
	var answer string
	if err := survey.AskOne(q, &answer, survey.WithValidator(validate)); err != nil {
		return 0, mapInterrupt(err)
	}
	return parseOptionalNumber(answer, def, lo, hi)
}

func (t *termDialogs) Confirm(msg string) (bool, error) {
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: msg}, &ok); err != nil {
		return false, mapInterrupt(err)
	}
	return ok, nil
}

func (t *termDialogs) ShowError(msg string) {
	color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, msg)
}

func (t *termDialogs) ShowSuccess(msg string) {
	color.New(color.FgGreen, color.Bold).Fprintln(os.Stdout, msg)
}

func mapInterrupt(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrCancelled
	}
	return err
}
