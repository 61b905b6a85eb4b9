package domain

import "errors"

var (
	// ErrSourceNotFound is returned when no candidate endpoint answers the health probe.
	ErrSourceNotFound = errors.New("metrics source not found")
	// ErrParse marks a successful response whose body is not a valid snapshot.
	ErrParse = errors.New("metrics parse failure")
	// ErrBadStatus marks a non-success response; the endpoint is considered stale.
	ErrBadStatus = errors.New("metrics bad status")
	// ErrTransport marks a request that could not be sent or whose response could not be read.
	ErrTransport = errors.New("metrics transport failure")
)

// ForcesRediscovery reports whether err means the resolved endpoint must be dropped.
func ForcesRediscovery(err error) bool {
	return errors.Is(err, ErrBadStatus) || errors.Is(err, ErrTransport)
}
