/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

// RevealState is what a cell currently shows.
type RevealState int

const (
	Hidden RevealState = iota
	Question
	Answer
)

func (s RevealState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Question:
		return "question"
	case Answer:
		return "answer"
	default:
		return "unknown"
	}
}

// MarshalText lets the state travel as its name over the websocket.
func (s RevealState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// HiddenText is shown in place of a clue that has not been clicked yet.
const HiddenText = "?"

type Clue struct {
	Question string
	Answer   string
	State    RevealState
}

// Advance moves the clue one step along Hidden -> Question -> Answer.
// Answer is terminal; Advance reports whether anything changed.
func (c *Clue) Advance() bool {
	switch c.State {
	case Hidden:
		c.State = Question
	case Question:
		c.State = Answer
	default:
		return false
	}

	return true
}

func (c *Clue) Text() string {
	switch c.State {
	case Question:
		return c.Question
	case Answer:
		return c.Answer
	default:
		return HiddenText
	}
}
