package notify

import "errors"

var (
	ErrChannelDisabled     = errors.New("channel is disabled")
	ErrInvalidIncident     = errors.New("incident has no headline or link")
	ErrNotificationDropped = errors.New("no worker slot freed before the pool timeout")
	ErrCircuitBreakerOpen  = errors.New("channel circuit breaker is open")
)
