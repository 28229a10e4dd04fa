// Package state holds the per-user conversation state machine and the
// per-mode session payloads. One session exists per user; entering a mode
// destroys whatever the previous mode left behind.
package state
