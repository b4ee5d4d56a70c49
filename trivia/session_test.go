package trivia

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(t *testing.T) *Board {
	t.Helper()

	board, err := NewBoard(makeCategories(NumCategories, CluesPerCategory))
	require.NoError(t, err)
	return board
}

func TestSessionInitialView(t *testing.T) {
	var s Session

	v := s.View()
	assert.False(t, v.Loading)
	assert.Empty(t, v.Error)
	assert.True(t, v.StartEnabled)
	assert.Equal(t, StartLabel, v.StartLabel)
	assert.Empty(t, v.Categories)
	assert.Empty(t, v.Cells)
}

func TestSessionBeginIsExclusive(t *testing.T) {
	var s Session

	require.NoError(t, s.Begin())
	assert.True(t, s.Loading())
	assert.False(t, s.View().StartEnabled)

	assert.ErrorIs(t, s.Begin(), ErrBusy)

	s.Finish(newTestBoard(t), nil)
	assert.NoError(t, s.Begin())
}

func TestSessionSetupSuccess(t *testing.T) {
	var s Session

	require.NoError(t, s.Begin())
	s.Finish(newTestBoard(t), nil)

	v := s.View()
	assert.False(t, v.Loading)
	assert.Empty(t, v.Error)
	assert.Equal(t, RestartLabel, v.StartLabel)
	assert.Len(t, v.Categories, NumCategories)
	assert.Equal(t, "CATEGORY 1", v.Categories[0])
	require.Len(t, v.Cells, NumCells)
	for i, cell := range v.Cells {
		assert.Equal(t, i, cell.ID)
		assert.Equal(t, Hidden, cell.State)
		assert.Equal(t, HiddenText, cell.Text)
	}
}

func TestSessionSetupFailure(t *testing.T) {
	var s Session

	require.NoError(t, s.Begin())
	s.Finish(nil, errors.New("network down"))

	v := s.View()
	assert.False(t, v.Loading)
	assert.NotEmpty(t, v.Error)
	assert.Equal(t, SetupFailedMessage, v.Error)
	assert.True(t, v.StartEnabled)

	require.NoError(t, s.Begin())
	assert.Empty(t, s.View().Error)
}

func TestSessionFailureKeepsPreviousBoard(t *testing.T) {
	var s Session

	require.NoError(t, s.Begin())
	s.Finish(newTestBoard(t), nil)
	_, err := s.Reveal(0)
	require.NoError(t, err)

	require.NoError(t, s.Begin())
	s.Finish(nil, errors.New("boom"))

	v := s.View()
	assert.Equal(t, SetupFailedMessage, v.Error)
	require.Len(t, v.Cells, NumCells)
	assert.Equal(t, Question, v.Cells[0].State)
}

func TestSessionRestartReplacesBoard(t *testing.T) {
	var s Session

	require.NoError(t, s.Begin())
	s.Finish(newTestBoard(t), nil)
	_, err := s.Reveal(3)
	require.NoError(t, err)

	require.NoError(t, s.Begin())
	s.Finish(newTestBoard(t), nil)

	for _, cell := range s.View().Cells {
		assert.Equal(t, Hidden, cell.State)
	}
}

func TestSessionRevealClicks(t *testing.T) {
	var s Session

	require.NoError(t, s.Begin())
	s.Finish(newTestBoard(t), nil)

	clue, err := s.Board().Cell(8)
	require.NoError(t, err)

	changed, err := s.Reveal(8)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, clue.Question, s.View().Cells[8].Text)

	changed, err = s.Reveal(8)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, clue.Answer, s.View().Cells[8].Text)

	changed, err = s.Reveal(8)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, clue.Answer, s.View().Cells[8].Text)

	_, err = s.Reveal(NumCells)
	assert.ErrorIs(t, err, ErrNoSuchCell)
}

func TestSessionRevealIgnoredWhileLoading(t *testing.T) {
	var s Session

	changed, err := s.Reveal(0)
	assert.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, s.Begin())
	s.Finish(newTestBoard(t), nil)
	require.NoError(t, s.Begin())

	changed, err = s.Reveal(0)
	assert.NoError(t, err)
	assert.False(t, changed)
}
