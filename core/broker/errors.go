package broker

import "errors"

var (
	// ErrSubscriptionClosed is returned by Subscription.Next once the
	// subscription has been closed, either by the subscriber itself or by the
	// retention sweeper removing the underlying slot. It marks graceful
	// end-of-stream, not a failure.
	ErrSubscriptionClosed = errors.New("subscription closed")
)
