// Package engine implements the core game logic for the quiz maze: a
// stateful, turn-synchronous command interpreter over a fixed maze
// topology, a puzzle catalogue, and a persistence store.
//
// The engine exposes one operation, Handle, which validates and applies a
// single command:
//   - look/map return the current view without mutation
//   - save persists the current state
//   - answer checks the pending puzzle's answer
//   - n/s/e/w and "go <dir>" move the player, subject to gate enforcement
//
// Invalid or currently-illegal user input always degrades to a message
// with an unchanged view; Handle returns an error only when persistence or
// scoring fails. Mutation happens before persistence, so a persistence
// failure can leave the in-memory session ahead of the durable record.
// This mirrors the store being the sole source of truth across restarts:
// callers needing strict consistency should discard the engine instance
// on error and reload from the store.
//
// An engine instance owns exactly one session for its lifetime and is not
// safe for concurrent use; callers that multiplex commands onto one engine
// must serialize them (see game/session).
package engine
