// Package session holds the client-side record of an authenticated session and
// the credential stores it can live in.
//
// A [Store] answers one question: which bearer token is active right now. The
// lifecycle manager only ever reads through that interface. Hosts that create,
// rotate or drop sessions use the [Writer] half of the concrete stores.
//
// # Stores
//
//   - [MemoryStore]: process memory, for tests and embedded hosts.
//   - [RedisStore]: one Redis key holding the JSON record, expiring with the token.
//   - [CookieStore]: a URL-escaped JSON cookie inside an http.CookieJar.
//
// # What this package must NOT do
//
//   - Import goSession (no upward imports).
//   - Decide whether a token is still valid; that belongs to the manager.
package session
