// Package middleware adapts the session manager to a host's local HTTP
// surface.
//
// [RequireSession] guards handlers that need a live session and runs the
// manager's expired path when the check fails. [StatusHandler] exposes the
// current [goSession.SessionInfo] as JSON for UIs that poll for banners or
// countdowns. Neither verifies signatures; the API remains the authority.
package middleware
