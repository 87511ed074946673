package models

import "fmt"

// StoreQueryError reports that the time-series store was unreachable or rejected a query.
type StoreQueryError struct {
	Field string
	Err   error
}

func (e *StoreQueryError) Error() string {
	return fmt.Sprintf("querying field %q: %v", e.Field, e.Err)
}

func (e *StoreQueryError) Unwrap() error { return e.Err }
