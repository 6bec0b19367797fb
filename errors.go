package relay

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/url"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyUnit is returned when a source is asked to fetch a unit with an empty key.
	ErrEmptyUnit = errors.New("unit key must not be empty")

	// ErrMalformedPayload is returned when a provider response lacks a field the
	// transformer depends on.
	ErrMalformedPayload = errors.New("malformed provider payload")
)

// StatusError reports a provider response with a status other than 200 OK.
type StatusError struct {
	Provider   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status code %d", e.Provider, e.StatusCode)
}

type isFetchFailureFunc func(error) bool

var isFetchFailures = []isFetchFailureFunc{
	statusIsFetchFailure,
	payloadIsFetchFailure,
	decodeIsFetchFailure,
	netIsFetchFailure,
	urlIsFetchFailure,
}

// IsFetchFailure reports whether err means "no data available for this unit":
// a non-200 status, a transport error, an undecodable or truncated body, or a
// payload missing required fields. Any other error is unexpected.
func IsFetchFailure(err error) bool {
	if err == nil {
		return false
	}
	for _, errF := range isFetchFailures {
		if errF(err) {
			return true
		}
	}
	return false
}

func statusIsFetchFailure(err error) bool {
	var sErr *StatusError
	return errors.As(err, &sErr)
}

func payloadIsFetchFailure(err error) bool {
	return errors.Is(err, ErrMalformedPayload) || errors.Is(err, ErrEmptyUnit)
}

func decodeIsFetchFailure(err error) bool {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	return errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF)
}

func netIsFetchFailure(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func urlIsFetchFailure(err error) bool {
	var uErr *url.Error
	return errors.As(err, &uErr)
}
