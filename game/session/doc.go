// Package session caches live game sessions in memory, keyed by game id.
//
// The cache is thread-safe and purely an optimization: every session's
// durable state is owned by the store, so evicted or expired sessions
// are resumed from persistence on next use. Manager satisfies
// service.SessionManager.
package session
