package models

import (
	"encoding/json"
	"errors"

	apierrors "github.com/diogo/lgclient/internal/errors"
)

// Result is the envelope returned by a runs request: either Success with the
// concatenated stream text in Data, or a failure with a message in Error.
type Result struct {
	Success bool   `json:"success"`
	Data    string `json:"data"`
	Error   string `json:"error,omitempty"`

	cause error
}

// Succeeded returns a successful result carrying data
func Succeeded(data string) Result {
	return Result{Success: true, Data: data}
}

// Failed returns a failed result whose message is taken from err
func Failed(err error) Result {
	return Result{Error: apierrors.Message(err), cause: err}
}

// MarshalJSON writes data only on success and error only on failure
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Success {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Data    string `json:"data"`
		}{Success: true, Data: r.Data})
	}
	return json.Marshal(struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}{Success: false, Error: r.Error})
}

// Cause returns the underlying error of a failed result, or nil
func (r Result) Cause() error {
	return r.cause
}

// Err returns the failure as an error value, or nil on success
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	if r.cause != nil {
		return r.cause
	}
	if r.Error == "" {
		return apierrors.ErrUnknown
	}
	return errors.New(r.Error)
}
