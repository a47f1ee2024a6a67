// Package sync implements the emote copying engine: planning which
// emotes of an origin set can move into a target set, and executing the
// plan against the 7TV API.
//
// # Planning
//
// BuildPlan is a pure function over two immutable set snapshots. It runs
// a fixed pipeline, each stage preserving the relative order of its
// survivors:
//
//  1. drop private emotes
//  2. drop emotes the target already holds verbatim (same id and alias)
//  3. resolve alias conflicts (drop them, or schedule the conflicting
//     target emote for removal, per Options.ReplaceConflicts)
//  4. trim to the target's remaining capacity (per Options.TrimToCapacity)
//
// # Execution
//
// The Executor walks the plan strictly in order, one emote at a time.
// Each item runs a remove-then-add sequence: the scheduled conflicting
// emote is removed first, then the new emote is added. Transient
// failures retry the whole sequence with a blocking backoff; remote
// rejections either skip the item or abort the session depending on the
// error kind. The session ends in one of three outcomes: Completed,
// AbortedGraceful (the target ran out of room) or AbortedFatal.
//
// Add and remove calls are not idempotent. A retry after a lost
// response can duplicate a mutation the server already applied; this is
// a known limitation, inherited deliberately, since defending against
// it would change observable behavior.
package sync
