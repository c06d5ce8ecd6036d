// Package rate limits session renewals with fixed-window Redis counters.
// One Lua script increments the counter and starts the window atomically.
//
// A host that renews automatically on every expiry warning would loop against
// an API that keeps issuing tokens shorter than the warning window. The
// limiter bounds that loop per stored session.
package rate
