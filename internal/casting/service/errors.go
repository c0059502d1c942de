package service

import "fmt"

// DuplicateError rejects a tree or flask number already taken for a date.
type DuplicateError struct {
	Kind  string // "tree_no" or "flask_no"
	Date  string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s %s already exists for %s", e.Kind, e.Value, e.Date)
}

// StageError rejects a transition the stage map does not allow.
type StageError struct {
	From string
	To   string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("cannot move flask from %s to %s", e.From, e.To)
}

// ReserveError rejects a scrap debit that the reserve cannot cover, or a
// manual removal that would take the balance below zero.
type ReserveError struct {
	MetalName string
	Requested float64
	Available float64
}

func (e *ReserveError) Error() string {
	return fmt.Sprintf("scrap reserve for %s cannot cover %.3f, only %.3f on hand", e.MetalName, e.Requested, e.Available)
}
