package client

import (
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go/failsafehttp"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
)

// retryableStatus lists the upstream responses worth retrying. Everything
// else, 401 included, fails on the first attempt.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// newRetryTransport wraps a RoundTripper with the bounded retry policy shared
// by every catalog adapter: up to 3 attempts with exponential backoff starting
// at one second, retrying only transport errors and transient status codes.
func newRetryTransport(base http.RoundTripper) http.RoundTripper {
	policy := retrypolicy.NewBuilder[*http.Response]().
		HandleIf(func(response *http.Response, err error) bool {
			if err != nil {
				return true
			}
			return response != nil && retryableStatus[response.StatusCode]
		}).
		WithBackoff(time.Second, 8*time.Second).
		WithMaxRetries(2).
		ReturnLastFailure().
		Build()

	return failsafehttp.NewRoundTripper(base, policy)
}
