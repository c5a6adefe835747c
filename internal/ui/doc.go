// Package ui implements the terminal interface for boardwalk.
//
// # Overview
//
// The root Model owns navigation, the notice bar, confirmation prompts, and
// theming. Each screen (post list, post detail, compose form, sign in,
// registration, profile, my posts) is a sub-model with its own Update and
// view; only the active screen receives messages.
//
// # Request lifecycle
//
// Screens that fetch data carry a sequence number incremented on every
// dispatch. A response message tags the sequence it was dispatched under, and
// Update drops any response whose sequence is stale. This keeps a slow
// earlier request from overwriting the state of a later one.
//
// Mutations never patch local state. A successful comment or post mutation
// re-fetches the affected resource so that ordering and author flags stay
// server-authoritative.
package ui
