// Package models defines the core domain models for bankroll.
//
// # Models
//
//   - Room: an isolated namespace holding one password, one roster of
//     players and one append-only bill log
//   - Player: a named participant with a persistent balance and an
//     optional live connection
//   - BillEntry: one immutable audit record of a balance-affecting or
//     administrative event
//
// Players are identified by name strings only; there are no user accounts.
// A room's password is an opaque string compared for exact equality.
//
// # Design Principles
//
//  1. **Volatile state**: nothing is persisted, a room lives exactly as
//     long as the process (or until the reaper collects it)
//  2. **Room is the unit of serialization**: all mutations to a room's
//     roster and bills happen under the room's mutex
//  3. **Bills are append-only**: the log is the sole audit trail and is
//     never mutated or truncated
package models
