/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
)

// Loader fetches everything one board needs from a Catalog.
type Loader struct {
	Catalog Catalog
	Rand    *rand.Rand

	PageSize  int
	MaxOffset int
	Select    SelectOptions
}

func NewLoader(catalog Catalog, rng *rand.Rand) *Loader {
	return &Loader{
		Catalog:   catalog,
		Rand:      rng,
		PageSize:  100,
		MaxOffset: 27000,
		Select:    DefaultSelectOptions(),
	}
}

// Load picks a random catalog page, selects categories from it with a fresh
// Drawn set, fetches their clues concurrently and builds the board.
// Every failure is reported as ErrSetup.
func (l *Loader) Load(ctx context.Context) (*Board, error) {
	board, err := l.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSetup, err)
	}

	return board, nil
}

func (l *Loader) load(ctx context.Context) (*Board, error) {
	offset := 0
	if l.MaxOffset > 0 {
		offset = l.Rand.IntN(l.MaxOffset)
	}

	page, err := l.Catalog.Categories(ctx, l.PageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}

	ids, _, err := SelectCategoryIDs(l.Rand, page, Drawn{}, l.Select)
	if err != nil {
		return nil, err
	}

	categories, err := l.fetchAll(ctx, ids)
	if err != nil {
		return nil, err
	}

	return NewBoard(categories)
}

func (l *Loader) fetchAll(ctx context.Context, ids []int) ([]Category, error) {
	categories := make([]Category, len(ids))
	errs := make([]error, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			categories[i], errs[i] = l.Catalog.Category(ctx, id)
		}(i, id)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("fetching category %d: %w", ids[i], err)
		}
	}

	return categories, nil
}
