package tokenizer

import (
	"errors"

	"github.com/pkoukk/tiktoken-go"
)

// allowAllSpecialTokens keeps source files that mention markers such as
// <|endoftext|> countable instead of producing an empty encoding.
var allowAllSpecialTokens = []string{"all"}

type openAICounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter openAICounter) Name() string {
	return counter.name
}

func (counter openAICounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errors.New("nil tiktoken encoder")
	}
	return len(counter.encoding.Encode(input, allowAllSpecialTokens, nil)), nil
}
