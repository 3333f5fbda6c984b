// Package tokenizer estimates token counts of collected files and prompts.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	defaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"
)

// NewCounter returns a Counter for the requested model. OpenAI model names
// resolve to their own encoding; every other model (Groq-hosted Llama,
// Mixtral, Gemma) is approximated with cl100k_base. The second return value
// names the encoding actually used.
func NewCounter(model string) (Counter, string, error) {
	lowerModel := strings.ToLower(strings.TrimSpace(model))
	if lowerModel == "" {
		lowerModel = defaultModel
	}

	if isOpenAIModel(lowerModel) {
		encoding, err := tiktoken.EncodingForModel(lowerModel)
		if err == nil && encoding != nil {
			return openAICounter{encoding: encoding, name: lowerModel}, lowerModel, nil
		}
	}

	encoding, err := tiktoken.GetEncoding(defaultEncodingName)
	if err != nil {
		return nil, "", fmt.Errorf("initialize default tokenizer: %w", err)
	}
	return openAICounter{encoding: encoding, name: defaultEncodingName}, defaultEncodingName, nil
}

func isOpenAIModel(model string) bool {
	prefixes := []string{
		"gpt-",
		"text-embedding",
		"davinci",
		"curie",
		"babbage",
		"ada",
		"code-",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
