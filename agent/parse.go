package agent

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/domino14/spymaster/board"
)

// StripFences removes a surrounding markdown code fence, with or without a
// language tag. Models are told not to send one but often do.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop a language tag such as ```json
		if tag := strings.TrimSpace(s[:nl]); !strings.ContainsAny(tag, "{[") {
			s = s[nl+1:]
		}
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// DecodeStrict decodes a single fenced or bare JSON value into v. Unknown
// fields and trailing data are errors.
func DecodeStrict(raw string, v any) error {
	body := StripFences(raw)
	if body == "" {
		return fmt.Errorf("%w: empty reply", ErrAgentResponse)
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrAgentResponse, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after reply", ErrAgentResponse)
	}
	return nil
}

type wireClue struct {
	Word          *string  `json:"word"`
	Count         *int     `json:"count"`
	Number        *int     `json:"number"`
	IntendedWords []string `json:"intendedWords"`
}

// ParseClueResponse parses {"word": string, "count": int,
// "intendedWords": [string]}. The older key "number" is accepted in place
// of "count".
func ParseClueResponse(raw string) (ClueResponse, error) {
	var w wireClue
	if err := DecodeStrict(raw, &w); err != nil {
		return ClueResponse{}, err
	}
	if w.Word == nil {
		return ClueResponse{}, fmt.Errorf("%w: missing word", ErrAgentResponse)
	}
	word := strings.TrimSpace(*w.Word)
	if word == "" {
		return ClueResponse{}, fmt.Errorf("%w: empty word", ErrAgentResponse)
	}
	count := w.Count
	switch {
	case w.Count != nil && w.Number != nil:
		return ClueResponse{}, fmt.Errorf("%w: both count and number given", ErrAgentResponse)
	case w.Count == nil:
		count = w.Number
	}
	if count == nil {
		return ClueResponse{}, fmt.Errorf("%w: missing count", ErrAgentResponse)
	}
	if *count < 0 {
		return ClueResponse{}, fmt.Errorf("%w: negative count %d", ErrAgentResponse, *count)
	}
	for _, iw := range w.IntendedWords {
		if strings.TrimSpace(iw) == "" {
			return ClueResponse{}, fmt.Errorf("%w: empty intended word", ErrAgentResponse)
		}
	}
	return ClueResponse{Word: word, Count: *count, IntendedWords: w.IntendedWords}, nil
}

type wireGuess struct {
	Guesses *[]int `json:"guesses"`
}

// ParseGuessResponse parses {"guesses": [int]}. Every index must be a board
// position.
func ParseGuessResponse(raw string) (GuessResponse, error) {
	var w wireGuess
	if err := DecodeStrict(raw, &w); err != nil {
		return GuessResponse{}, err
	}
	if w.Guesses == nil {
		return GuessResponse{}, fmt.Errorf("%w: missing guesses", ErrAgentResponse)
	}
	for _, idx := range *w.Guesses {
		if idx < 0 || idx >= board.Size {
			return GuessResponse{}, fmt.Errorf("%w: guess %d is off the board", ErrAgentResponse, idx)
		}
	}
	return GuessResponse{Guesses: *w.Guesses}, nil
}
