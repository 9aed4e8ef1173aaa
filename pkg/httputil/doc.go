// Package httputil provides HTTP client utilities for the enrichment webhook.
//
// # Overview
//
//   - [PostJSON]: JSON request/response round trip with observability hooks
//   - [Retry]: Automatic retry with exponential backoff
//
// # Retry
//
// [Retry] re-runs an operation only when its error is wrapped in
// [RetryableError]. Wrap transient failures (connection resets, 502/503/504
// responses) and return everything else unwrapped:
//
//	err := httputil.Retry(ctx, 3, 500*time.Millisecond, func() error {
//	    resp, err := httputil.PostJSON(ctx, client, url, payload)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
package httputil
