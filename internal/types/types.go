// Package types holds the shared data structures used across the
// application. Keeping them in one place prevents import cycles —
// the console, validation, and storage packages can all import types
// without depending on each other.
package types

// Student represents one student record.
//
// ID is assigned by the store when the record is created; any value set
// by the caller before CreateStudent is ignored.
//
// The validate:"..." tags are checked by the go-playground/validator
// package at the console boundary. The storage layer itself enforces no
// range on Age.
type Student struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Age       int    `json:"age"        validate:"gte=15,lte=60"`
	Code      string `json:"code"       validate:"required"`
}

// FullName joins first and last name with a single space.
// It is derived on every call and never persisted.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
