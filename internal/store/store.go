// Package store persists the application's entities with gorm.
package store

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique column already holds the value
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotPending is returned when a withdrawal request already reached a terminal state
	ErrNotPending = errors.New("withdrawal request is not pending")
	// ErrInsufficientFunds is returned when approving would overdraw the owner's balance
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrStale is returned when a conditional update finds the stored value already changed
	ErrStale = errors.New("stored value changed")
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

// Page is a 1-based pagination window
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows to skip
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// NewPage clamps number and size to sane values
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1 // Default page number
	}
	if size < 1 || size > 100 {
		size = 20 // Default page size
	}
	return Page{Number: number, Size: size}
}

// TotalPages returns how many pages total rows fill
func (p Page) TotalPages(total int64) int {
	return (int(total) + p.Size - 1) / p.Size
}
