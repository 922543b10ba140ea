package ui

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// ErrNonInteractive is returned by every prompt when prompting is disabled
var ErrNonInteractive = errors.New("cannot prompt in non-interactive mode")

func (u *UI) ask(p survey.Prompt, response any, opts ...survey.AskOpt) error {
	if u.nonInteractive {
		return ErrNonInteractive
	}
	return survey.AskOne(p, response, opts...)
}

// PromptYesNo prompts the user for a yes/no answer
func (u *UI) PromptYesNo(prompt string, defaultYes bool) (bool, error) {
	var result bool
	err := u.ask(&survey.Confirm{Message: prompt, Default: defaultYes}, &result)
	return result, err
}

// PromptPassword prompts the user for password input (hidden)
func (u *UI) PromptPassword(prompt string) (string, error) {
	var result string
	err := u.ask(&survey.Password{Message: prompt}, &result)
	return result, err
}

// PromptPasswordConfirm asks twice until both answers match and are not empty
func (u *UI) PromptPasswordConfirm(prompt string) (string, error) {
	for {
		first, err := u.PromptPassword(prompt)
		if err != nil {
			return "", err
		}

		second, err := u.PromptPassword("Confirm password")
		if err != nil {
			return "", err
		}

		switch {
		case first != second:
			u.Error("Passwords do not match. Please try again.")
		case first == "":
			u.Error("Password cannot be empty")
		default:
			return first, nil
		}
	}
}

// PromptSelect prompts the user to select from a list and returns the index
func (u *UI) PromptSelect(prompt string, options []string) (int, error) {
	var selected string
	if err := u.ask(&survey.Select{Message: prompt, Options: options}, &selected); err != nil {
		return -1, err
	}

	for i, opt := range options {
		if opt == selected {
			return i, nil
		}
	}

	return -1, fmt.Errorf("selected option not found")
}

// PromptInputWithValidation prompts for text until validator accepts it
func (u *UI) PromptInputWithValidation(prompt, defaultValue string, validator survey.Validator) (string, error) {
	var result string
	p := &survey.Input{
		Message: prompt,
		Default: defaultValue,
	}

	err := u.ask(p, &result, survey.WithValidator(validator))
	return result, err
}
