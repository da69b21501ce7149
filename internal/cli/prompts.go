package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// PromptForMessage reads the next user utterance in the chat loop.
func PromptForMessage() (string, error) {
	var message string
	prompt := &survey.Input{
		Message: "You:",
		Help:    "Ask about a company, e.g. \"Tell me about Apple\" or \"Compare AAPL and MSFT\". Type exit to quit.",
	}

	if err := survey.AskOne(prompt, &message); err != nil {
		return "", err
	}
	return strings.TrimSpace(message), nil
}

// PromptForClarification asks the follow-up question the interpreter
// raised and returns the user's answer.
func PromptForClarification(question string) (string, error) {
	var answer string
	prompt := &survey.Input{
		Message: question,
		Help:    "Name a company or ticker symbol, e.g. AAPL or Microsoft",
	}

	err := survey.AskOne(prompt, &answer, survey.WithValidator(func(val interface{}) error {
		if strings.TrimSpace(val.(string)) == "" {
			return fmt.Errorf("please name a company or ticker")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}
