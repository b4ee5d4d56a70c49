package trivia

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

func makeCategory(id int, clues int) Category {
	cat := Category{ID: id, Title: fmt.Sprintf("category %d", id)}
	for i := 0; i < clues; i++ {
		cat.Clues = append(cat.Clues, Clue{
			Question: fmt.Sprintf("q%d-%d", id, i),
			Answer:   fmt.Sprintf("a%d-%d", id, i),
		})
	}
	return cat
}

func makeCategories(n, clues int) []Category {
	cats := make([]Category, 0, n)
	for i := 0; i < n; i++ {
		cats = append(cats, makeCategory(i+1, clues))
	}
	return cats
}

func makePage(counts ...int) []CategorySummary {
	page := make([]CategorySummary, 0, len(counts))
	for i, n := range counts {
		page = append(page, CategorySummary{ID: 100 + i, Title: fmt.Sprintf("c%d", i), CluesCount: n})
	}
	return page
}

type fakeCatalog struct {
	mu sync.Mutex

	page       []CategorySummary
	pageErr    error
	details    map[int]Category
	detailErr  error
	gotOffset  int
	gotCount   int
	detailHits []int
}

func (f *fakeCatalog) Categories(_ context.Context, count, offset int) ([]CategorySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.gotCount = count
	f.gotOffset = offset
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	return f.page, nil
}

func (f *fakeCatalog) Category(_ context.Context, id int) (Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.detailHits = append(f.detailHits, id)
	if f.detailErr != nil {
		return Category{}, f.detailErr
	}
	cat, ok := f.details[id]
	if !ok {
		return Category{}, errors.New("unknown category")
	}
	return cat, nil
}
