// Package jwt inspects bearer tokens on the client side of a session.
//
// The [Inspector] decodes the claims segment of a compact token and answers
// expiry questions (expired, expiring soon, time remaining) against an
// injectable clock. It never verifies signatures: the API that issued the
// token owns verification, and this package only reads the claims the token
// carries at face value.
//
// # What this package must NOT do
//
//   - Return decode errors other than [ErrMalformedToken].
//   - Panic on arbitrary input.
//   - Import goSession or session (no upward imports).
//
// [Signer] mints HS256/Ed25519 tokens for local tooling and tests.
package jwt
