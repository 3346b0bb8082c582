package agent

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestStripFences(t *testing.T) {
	is := is.New(t)
	is.Equal(StripFences(`{"a":1}`), `{"a":1}`)
	is.Equal(StripFences("```json\n{\"a\":1}\n```"), `{"a":1}`)
	is.Equal(StripFences("```JSON\n{\"a\":1}\n```\n"), `{"a":1}`)
	is.Equal(StripFences("```\n{\"a\":1}\n```"), `{"a":1}`)
	is.Equal(StripFences("```{\"a\":1}```"), `{"a":1}`)
	is.Equal(StripFences("  \n{\"a\":1}  "), `{"a":1}`)
}

func TestParseClueResponse(t *testing.T) {
	is := is.New(t)
	r, err := ParseClueResponse(`{"word": " Orbit ", "count": 2, "intendedWords": ["Quasar", "Comet"]}`)
	is.NoErr(err)
	is.Equal(r, ClueResponse{Word: "Orbit", Count: 2, IntendedWords: []string{"Quasar", "Comet"}})

	r, err = ParseClueResponse("```json\n{\"word\": \"orbit\", \"number\": 0}\n```")
	is.NoErr(err)
	is.Equal(r.Word, "orbit")
	is.Equal(r.Count, 0)
}

func TestParseClueResponseRejects(t *testing.T) {
	for _, raw := range []string{
		``,
		`not json`,
		`{"word": "orbit"}`,
		`{"count": 2}`,
		`{"word": "", "count": 2}`,
		`{"word": "orbit", "count": -1}`,
		`{"word": "orbit", "count": "two"}`,
		`{"word": "orbit", "count": 2.5}`,
		`{"word": 7, "count": 2}`,
		`{"word": "orbit", "count": 2, "confidence": 0.9}`,
		`{"word": "orbit", "count": 2, "number": 2}`,
		`{"word": "orbit", "count": 2, "intendedWords": "Quasar"}`,
		`{"word": "orbit", "count": 2, "intendedWords": [""]}`,
		`{"word": "orbit", "count": 2} {"word": "again", "count": 1}`,
		`["orbit", 2]`,
	} {
		_, err := ParseClueResponse(raw)
		if !errors.Is(err, ErrAgentResponse) {
			t.Errorf("%q: expected ErrAgentResponse, got %v", raw, err)
		}
	}
}

func TestParseGuessResponse(t *testing.T) {
	is := is.New(t)
	r, err := ParseGuessResponse("```json\n{\"guesses\": [3, 0, 24]}\n```")
	is.NoErr(err)
	is.Equal(r.Guesses, []int{3, 0, 24})

	r, err = ParseGuessResponse(`{"guesses": []}`)
	is.NoErr(err)
	is.Equal(len(r.Guesses), 0)

	for _, raw := range []string{
		`{}`,
		`{"guesses": null}`,
		`{"guesses": [25]}`,
		`{"guesses": [-1]}`,
		`{"guesses": ["3"]}`,
		`{"guesses": [1], "why": "because"}`,
		`{"guesses": [1]} trailing`,
	} {
		_, err := ParseGuessResponse(raw)
		if !errors.Is(err, ErrAgentResponse) {
			t.Errorf("%q: expected ErrAgentResponse, got %v", raw, err)
		}
	}
}
