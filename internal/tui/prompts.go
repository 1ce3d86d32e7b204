package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrInteractiveDisabled is returned when prompts are disabled via GITPUSHER_NO_INTERACTIVE or a missing TTY
var ErrInteractiveDisabled = fmt.Errorf("interactive prompts are disabled (GITPUSHER_NO_INTERACTIVE is set or no TTY)")

// ErrCanceled is returned when the user interrupts a prompt
var ErrCanceled = errors.New("canceled")

// checkInteractiveAllowed returns an error if prompting is not possible
func checkInteractiveAllowed() error {
	if os.Getenv("GITPUSHER_NO_INTERACTIVE") != "" || !IsTTY() {
		return ErrInteractiveDisabled
	}
	return nil
}

func askOne(prompt survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
	if err := checkInteractiveAllowed(); err != nil {
		return err
	}
	if err := survey.AskOne(prompt, response, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return ErrCanceled
		}
		return err
	}
	return nil
}

// PromptTextInput prompts the user for text input
func PromptTextInput(prompt, defaultValue string) (string, error) {
	var value string
	err := askOne(&survey.Input{Message: prompt, Default: defaultValue}, &value)
	return value, err
}

// PromptRequiredInput prompts until the user enters a non-empty value
func PromptRequiredInput(prompt, help string) (string, error) {
	var value string
	err := askOne(&survey.Input{Message: prompt, Help: help}, &value, survey.WithValidator(survey.Required))
	return value, err
}

// PromptConfirm prompts the user for yes/no confirmation
func PromptConfirm(prompt string, defaultValue bool) (bool, error) {
	var confirmed bool
	err := askOne(&survey.Confirm{Message: prompt, Default: defaultValue}, &confirmed)
	return confirmed, err
}
