/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import "errors"

var (
	ErrAttemptsExhausted = errors.New("no valid set of categories found within the draw limit")
	ErrBusy              = errors.New("a game is already being set up")
	ErrCatalogExhausted  = errors.New("not enough undrawn categories left in the catalog page")
	ErrCategoryCount     = errors.New("wrong number of categories for a board")
	ErrNoSuchCell        = errors.New("no such cell")
	ErrSetup             = errors.New("unable to set up game")
	ErrTooFewClues       = errors.New("category has too few clues")
	ErrTooManyRequests   = errors.New("too many requests")
)
