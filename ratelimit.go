package tumblr

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	headerPerHourRemaining = "X-Ratelimit-Perhour-Remaining"
	headerPerHourLimit     = "X-Ratelimit-Perhour-Limit"
	headerPerHourReset     = "X-Ratelimit-Perhour-Reset"
	headerPerDayRemaining  = "X-Ratelimit-Perday-Remaining"
	headerPerDayLimit      = "X-Ratelimit-Perday-Limit"
	headerPerDayReset      = "X-Ratelimit-Perday-Reset"
)

// RateLimits is the rate limit reading taken from the last response.
// The zero value is the reading before any request completed.
type RateLimits struct {
	PerHourRemaining int
	PerHourLimit     int
	PerHourReset     int
	PerDayRemaining  int
	PerDayLimit      int
	PerDayReset      int
}

// ParseRateLimits reads the rate limit headers. Missing or non-numeric
// headers read as 0.
func ParseRateLimits(h http.Header) RateLimits {
	return RateLimits{
		PerHourRemaining: headerInt(h, headerPerHourRemaining),
		PerHourLimit:     headerInt(h, headerPerHourLimit),
		PerHourReset:     headerInt(h, headerPerHourReset),
		PerDayRemaining:  headerInt(h, headerPerDayRemaining),
		PerDayLimit:      headerInt(h, headerPerDayLimit),
		PerDayReset:      headerInt(h, headerPerDayReset),
	}
}

func headerInt(h http.Header, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(h.Get(key)))
	if err != nil {
		return 0
	}
	return v
}
