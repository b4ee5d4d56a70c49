package trivia

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func fullPage(n, clues int) []CategorySummary {
	counts := make([]int, n)
	for i := range counts {
		counts[i] = clues
	}
	return makePage(counts...)
}

func TestSelectCategoryIDs(t *testing.T) {
	page := fullPage(100, 10)
	before := Drawn{}

	ids, drawn, err := SelectCategoryIDs(newRand(1), page, before, DefaultSelectOptions())
	require.NoError(t, err)

	assert.Len(t, ids, NumCategories)
	assert.Len(t, drawn, NumCategories)
	assert.Empty(t, before, "input set must not be modified")

	seen := map[int]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}

func TestSelectCategoryIDsTooSmallPage(t *testing.T) {
	page := makePage(3, 6, 7)

	ids, _, err := SelectCategoryIDs(newRand(1), page, nil, DefaultSelectOptions())
	assert.Nil(t, ids)
	assert.ErrorIs(t, err, ErrCatalogExhausted)
}

func TestSelectCategoryIDsRejectsThinCategories(t *testing.T) {
	page := makePage(10, 10, 3, 10, 10, 10, 10)
	low := page[2].ID

	var successes, exhausted int
	for seed := uint64(0); seed < 200; seed++ {
		ids, drawn, err := SelectCategoryIDs(newRand(seed), page, nil, DefaultSelectOptions())
		if err != nil {
			assert.ErrorIs(t, err, ErrCatalogExhausted)
			assert.Len(t, drawn, 6)
			exhausted++
			continue
		}

		successes++
		assert.Len(t, ids, NumCategories)
		assert.NotContains(t, ids, low)
	}

	assert.Positive(t, successes)
	assert.Positive(t, exhausted)
}

func TestSelectCategoryIDsClueThreshold(t *testing.T) {
	counts := make([]int, 100)
	for i := range counts {
		counts[i] = i % 8
	}
	page := makePage(counts...)
	byID := map[int]int{}
	for _, entry := range page {
		byID[entry.ID] = entry.CluesCount
	}

	opts := DefaultSelectOptions()
	opts.MaxAttempts = 16

	for seed := uint64(0); seed < 50; seed++ {
		ids, _, err := SelectCategoryIDs(newRand(seed), page, nil, opts)
		if err != nil {
			continue
		}
		for _, id := range ids {
			assert.GreaterOrEqual(t, byID[id], CluesPerCategory)
		}
	}
}

func TestSelectCategoryIDsAttemptsExhausted(t *testing.T) {
	page := fullPage(1000, 0)
	opts := DefaultSelectOptions()
	opts.MaxAttempts = 3

	ids, drawn, err := SelectCategoryIDs(newRand(7), page, nil, opts)
	assert.Nil(t, ids)
	assert.ErrorIs(t, err, ErrAttemptsExhausted)
	assert.Len(t, drawn, 3*NumCategories)
}

func TestSelectCategoryIDsHonoursDrawn(t *testing.T) {
	page := fullPage(100, 10)
	drawn := Drawn{}
	for i := 0; i < 94; i++ {
		drawn[i] = struct{}{}
	}

	ids, after, err := SelectCategoryIDs(newRand(3), page, drawn, DefaultSelectOptions())
	require.NoError(t, err)

	var expected []int
	for i := 94; i < 100; i++ {
		expected = append(expected, page[i].ID)
	}
	assert.ElementsMatch(t, expected, ids)
	assert.Len(t, after, 100)
	assert.Len(t, drawn, 94)
}

func TestSelectCategoryIDsDuplicateIDs(t *testing.T) {
	page := fullPage(6, 10)
	for i := range page {
		page[i].ID = 1
	}

	_, _, err := SelectCategoryIDs(newRand(1), page, nil, DefaultSelectOptions())
	assert.ErrorIs(t, err, ErrCatalogExhausted)
}

func TestSelectCategoryIDsInvalidCount(t *testing.T) {
	opts := DefaultSelectOptions()
	opts.Count = 0

	_, _, err := SelectCategoryIDs(newRand(1), fullPage(10, 10), nil, opts)
	assert.Error(t, err)
}
