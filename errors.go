package trellis

import "errors"

var (
	// ErrFormat reports a malformed value string, such as "+=abc".
	ErrFormat = errors.New("trellis: format error")

	// ErrType reports an argument of the wrong shape: an empty state name,
	// a negative duration, a missing ease function and similar.
	ErrType = errors.New("trellis: type error")

	// ErrDuplicateSubscription reports a validator whose change feed is
	// already subscribed by the same chain.
	ErrDuplicateSubscription = errors.New("trellis: validator already subscribed")
)
