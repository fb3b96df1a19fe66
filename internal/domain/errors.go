package domain

import "fmt"

// ErrorKind classifies a remote-store failure at the data-access
// boundary. The state provider swallows these after logging, but the
// typed signal stays available to adapters and tests.
type ErrorKind string

const (
	KindFetch    ErrorKind = "fetch"
	KindCreate   ErrorKind = "create"
	KindUpdate   ErrorKind = "update"
	KindDelete   ErrorKind = "delete"
	KindNotFound ErrorKind = "not_found"
)

// StoreError wraps a remote-store failure with its kind and the
// collection it hit.
type StoreError struct {
	Kind       ErrorKind
	Collection string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s on %s: %v", e.Kind, e.Collection, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError builds a StoreError.
func NewStoreError(kind ErrorKind, collection string, err error) *StoreError {
	return &StoreError{Kind: kind, Collection: collection, Err: err}
}
