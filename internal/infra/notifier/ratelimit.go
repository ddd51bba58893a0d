package notifier

import (
	"time"

	"golang.org/x/time/rate"
)

// limit is a webhook's token bucket: burst sends at once, then one per every.
type limit struct {
	every time.Duration
	burst int
}

// Both services document per-webhook limits; these stay under them.
var (
	discordLimit = limit{every: 2 * time.Second, burst: 3}
	slackLimit   = limit{every: time.Second, burst: 1}
)

func (l limit) limiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(l.every), l.burst)
}
