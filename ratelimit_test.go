package tumblr

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRateLimits(t *testing.T) {
	h := http.Header{}
	h.Set("X-Ratelimit-Perhour-Remaining", "10")
	h.Set("X-Ratelimit-Perhour-Limit", "20")
	h.Set("X-Ratelimit-Perhour-Reset", "30")
	h.Set("X-Ratelimit-Perday-Remaining", "40")
	h.Set("X-Ratelimit-Perday-Limit", "50")
	h.Set("X-Ratelimit-Perday-Reset", "60")

	assert.Equal(t, RateLimits{
		PerHourRemaining: 10,
		PerHourLimit:     20,
		PerHourReset:     30,
		PerDayRemaining:  40,
		PerDayLimit:      50,
		PerDayReset:      60,
	}, ParseRateLimits(h))
}

func TestParseRateLimitsDefaultsToZero(t *testing.T) {
	assert.Equal(t, RateLimits{}, ParseRateLimits(http.Header{}))

	h := http.Header{}
	h.Set("X-Ratelimit-Perhour-Remaining", "lots")
	h.Set("X-Ratelimit-Perday-Limit", " 5 ")
	assert.Equal(t, RateLimits{PerDayLimit: 5}, ParseRateLimits(h))
}
