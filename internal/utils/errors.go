package utils

import (
	"errors"
	"fmt"
)

// Common application errors used across services. Catalog absence is modeled
// as a nil result, not a sentinel.
var (
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrSyncInProgress     = errors.New("SYNC_IN_PROGRESS")
)

// TransportError signals an unexpected HTTP status (or a connection failure)
// on a call to the Awin API. It is fatal to the call that produced it; no
// retries are performed.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error calling %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("expected response status code 200 from %s, got %d", e.Endpoint, e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DataMappingError signals an API or feed CSV value that cannot be mapped to
// the domain model. It carries the source record identifier and field so
// callers can skip the offending record and continue a batch import instead
// of aborting it.
type DataMappingError struct {
	Source string // "feed" or "transaction"
	ID     string
	Field  string
	Value  string
}

func (e *DataMappingError) Error() string {
	return fmt.Sprintf("cannot map %s %s: field %q has unrecognized value %q", e.Source, e.ID, e.Field, e.Value)
}

// IsMappingError reports whether err is (or wraps) a DataMappingError.
func IsMappingError(err error) bool {
	var me *DataMappingError
	return errors.As(err, &me)
}
