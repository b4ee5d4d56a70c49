/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"strings"
)

// SetupFailedMessage is the single message shown for any setup failure.
const SetupFailedMessage = "Could not load trivia questions. Please try again."

const (
	StartLabel   = "Start!"
	RestartLabel = "Restart!"
)

// Session is the display state of one game: the board plus the start
// control, loading indicator and error region around it.
type Session struct {
	board   *Board
	loading bool
	err     string
	started bool
}

func (s *Session) Loading() bool {
	return s.loading
}

func (s *Session) Board() *Board {
	return s.board
}

// Begin starts a setup. While one is in flight the start control is
// disabled, so a second Begin returns ErrBusy.
func (s *Session) Begin() error {
	if s.loading {
		return ErrBusy
	}

	s.loading = true
	s.err = ""

	return nil
}

// Finish ends a setup. On success the board is replaced outright.
// On failure any previous board stays, and the error region is shown.
func (s *Session) Finish(board *Board, err error) {
	s.loading = false

	if err != nil || board == nil {
		s.err = SetupFailedMessage
		return
	}

	s.board = board
	s.err = ""
	s.started = true
}

// Reveal advances the given cell. It does nothing while loading or before
// a board exists.
func (s *Session) Reveal(i int) (bool, error) {
	if s.loading || s.board == nil {
		return false, nil
	}

	return s.board.Reveal(i)
}

type CellView struct {
	ID    int         `json:"id"`
	State RevealState `json:"state"`
	Text  string      `json:"text"`
}

// View is everything a client needs to draw the page.
type View struct {
	Loading      bool       `json:"loading"`
	Error        string     `json:"error,omitempty"`
	StartLabel   string     `json:"start_label"`
	StartEnabled bool       `json:"start_enabled"`
	Categories   []string   `json:"categories"`
	Cells        []CellView `json:"cells"`
}

func (s *Session) View() View {
	v := View{
		Loading:      s.loading,
		Error:        s.err,
		StartLabel:   StartLabel,
		StartEnabled: !s.loading,
		Categories:   []string{},
		Cells:        []CellView{},
	}

	if s.started {
		v.StartLabel = RestartLabel
	}

	if s.board == nil {
		return v
	}

	for _, title := range s.board.titles {
		v.Categories = append(v.Categories, strings.ToUpper(title))
	}

	v.Cells = make([]CellView, len(s.board.cells))
	for i := range s.board.cells {
		clue := &s.board.cells[i]
		v.Cells[i] = CellView{
			ID:    i,
			State: clue.State,
			Text:  clue.Text(),
		}
	}

	return v
}
