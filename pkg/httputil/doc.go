// Package httputil provides retry helpers for the source clients.
//
// [Retry] re-runs an operation with exponential backoff, but only when the
// returned error is wrapped in [RetryableError]. Clients wrap network
// failures and 5xx responses; 404 and rate-limit responses are returned
// immediately so that handlers can degrade the affected field at once
// instead of stalling the run.
//
//	err := httputil.Retry(ctx, 3, 500*time.Millisecond, func() error {
//	    return fetch()
//	})
package httputil
