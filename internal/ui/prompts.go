package ui

import (
	"errors"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/term"
)

// ErrNonInteractive is returned by prompts that need an answer from the
// user when none can be asked for.
var ErrNonInteractive = errors.New("input required but not running interactively")

// StdinIsTerminal reports whether stdin is attached to a terminal.
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// PromptYesNo prompts the user for a yes/no answer. In non-interactive
// mode the default is returned without asking.
func (u *UI) PromptYesNo(prompt string, defaultYes bool) (bool, error) {
	if u.nonInteractive {
		return defaultYes, nil
	}

	var result bool
	p := &survey.Confirm{
		Message: prompt,
		Default: defaultYes,
	}

	err := survey.AskOne(p, &result)
	return result, err
}

// PromptPassword prompts the user for password input (hidden)
func (u *UI) PromptPassword(prompt string) (string, error) {
	if u.nonInteractive {
		return "", ErrNonInteractive
	}

	var result string
	p := &survey.Password{
		Message: prompt,
	}

	err := survey.AskOne(p, &result)
	return result, err
}

// PromptPasswordConfirm prompts for password with confirmation
func (u *UI) PromptPasswordConfirm(prompt string) (string, error) {
	for {
		password1, err := u.PromptPassword(prompt)
		if err != nil {
			return "", err
		}

		password2, err := u.PromptPassword("Confirm passphrase")
		if err != nil {
			return "", err
		}

		if password1 == password2 {
			if password1 == "" {
				u.Error("Passphrase cannot be empty")
				continue
			}
			return password1, nil
		}

		u.Error("Passphrases do not match. Please try again.")
	}
}
