/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"fmt"
	"math/rand/v2"
)

// CategorySummary is one entry of a catalog page.
type CategorySummary struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	CluesCount int    `json:"clues_count"`
}

// Drawn records which catalog page indices one game setup has already used.
// It belongs to a single setup and is never shared between games.
type Drawn map[int]struct{}

func (d Drawn) Has(i int) bool {
	_, ok := d[i]
	return ok
}

func (d Drawn) clone() Drawn {
	out := make(Drawn, len(d))
	for i := range d {
		out[i] = struct{}{}
	}
	return out
}

type SelectOptions struct {
	Count       int
	MinClues    int
	MaxAttempts int
}

func DefaultSelectOptions() SelectOptions {
	return SelectOptions{
		Count:       NumCategories,
		MinClues:    CluesPerCategory,
		MaxAttempts: 10,
	}
}

// SelectCategoryIDs draws opts.Count distinct entries from page, skipping any
// index already in drawn. A batch containing a category with fewer than
// opts.MinClues clues is thrown away whole and the draw starts over, up to
// opts.MaxAttempts times. The input set is left untouched; the returned set
// includes every index drawn here, including those from rejected batches.
func SelectCategoryIDs(rng *rand.Rand, page []CategorySummary, drawn Drawn, opts SelectOptions) ([]int, Drawn, error) {
	if drawn == nil {
		drawn = Drawn{}
	}
	drawn = drawn.clone()

	if opts.Count <= 0 {
		return nil, drawn, fmt.Errorf("invalid category count: %d", opts.Count)
	}

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		batch, err := drawBatch(rng, len(page), drawn, opts.Count)
		if err != nil {
			return nil, drawn, err
		}

		if ids, ok := acceptBatch(page, batch, opts.MinClues); ok {
			return ids, drawn, nil
		}
	}

	return nil, drawn, fmt.Errorf("%w: %d attempts", ErrAttemptsExhausted, opts.MaxAttempts)
}

func drawBatch(rng *rand.Rand, size int, drawn Drawn, count int) ([]int, error) {
	free := make([]int, 0, size)
	for i := 0; i < size; i++ {
		if !drawn.Has(i) {
			free = append(free, i)
		}
	}

	if len(free) < count {
		return nil, fmt.Errorf("%w: %d left, %d needed", ErrCatalogExhausted, len(free), count)
	}

	// Partial Fisher-Yates over the undrawn indices.
	for i := 0; i < count; i++ {
		j := i + rng.IntN(len(free)-i)
		free[i], free[j] = free[j], free[i]
		drawn[free[i]] = struct{}{}
	}

	return free[:count], nil
}

func acceptBatch(page []CategorySummary, batch []int, minClues int) ([]int, bool) {
	ids := make([]int, 0, len(batch))
	seen := make(map[int]struct{}, len(batch))

	for _, i := range batch {
		entry := page[i]
		if entry.CluesCount < minClues {
			return nil, false
		}
		if _, dup := seen[entry.ID]; dup {
			return nil, false
		}
		seen[entry.ID] = struct{}{}
		ids = append(ids, entry.ID)
	}

	return ids, true
}
