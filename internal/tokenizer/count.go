package tokenizer

import (
	"errors"
)

var errNilCounter = errors.New("nil tokenizer counter")

// CountText estimates tokens for text using counter.
func CountText(counter Counter, text string) (int, error) {
	if counter == nil {
		return 0, errNilCounter
	}
	return counter.CountString(text)
}

// CountAll estimates the combined token count of several texts.
func CountAll(counter Counter, texts ...string) (int, error) {
	total := 0
	for _, text := range texts {
		tokens, err := CountText(counter, text)
		if err != nil {
			return 0, err
		}
		total += tokens
	}
	return total, nil
}
