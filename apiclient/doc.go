// Package apiclient is the REST calling layer of a session-aware host.
//
// Every request carries the stored token as a bearer credential. A session
// guard can refuse requests before they leave the process, and a 401 answer
// invokes the unauthorized handler, which hosts wire to
// [goSession.Manager.ForceExpire].
package apiclient
