// Package goSession keeps a client-side bearer session under watch: it decides
// whether the stored token is still usable, warns ahead of expiry, and tells
// the host exactly once when the session is over.
//
// A [Manager] is built once per application with [New] and torn down with
// [Manager.Close]. It reads the active token through a [session.Store] and never
// writes it; the host saves rotated tokens and calls [Manager.RefreshMonitoring].
//
// # Generations
//
// Every scheduling pass (Initialize, RefreshMonitoring) cancels the previous
// timers and starts a new generation. Each generation delivers at most one
// expiring-soon and one expired notification, warning first. Timers from an
// older generation never deliver.
//
// # What this package must NOT do
//
//   - Verify token signatures (the API owns that).
//   - Write to the credential store or show UI; hooks only notify.
//   - Recover panics raised by host hooks.
package goSession
