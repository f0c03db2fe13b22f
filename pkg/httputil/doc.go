// Package httputil provides the HTTP client used to fetch photos and photo
// catalog listings.
//
// [Client] adds three things to net/http: responses are cached in a
// [cache.Cache], transient failures (transport errors, 5xx, 429) are
// retried with exponential backoff through [Retry], and every request is
// reported to the [observability.HTTP] hooks.
//
//	c := httputil.NewClient(cache.NewNullCache(), 24*time.Hour, nil)
//	data, err := c.CachedBytes(ctx, "photo", url)
//
// Status codes map onto the coded errors of package errors: 404 becomes
// NOT_FOUND, everything else that fails becomes NETWORK_ERROR.
package httputil
