// Package board provides an HTTP client for the board REST service.
//
// # Overview
//
// Every endpoint of the board service wraps its response in a uniform
// envelope:
//
//	{ "success": true,  "data": <payload> }
//	{ "success": false, "data": { "message": "..." } }
//
// The client unwraps that envelope in a single place (client.go), so callers
// only ever see the payload or a normalized *Error. On every failure the
// resolved human-readable message is pushed to the configured Notifier
// exactly once; callers must not notify the user again for the same failure.
//
// # Architecture
//
//   - client.go: transport, envelope normalization, notify-once
//   - envelope.go: envelope decoding and message precedence
//   - errors.go: the normalized error taxonomy
//   - types.go: wire types (Post, Comment, Attachment, Page)
//   - posts.go, comments.go, users.go: per-resource operations
//   - multipart.go: mixed JSON+binary post submission
//   - files.go: attachment URL resolution and image detection
//
// # Authorization
//
// The service authorizes mutations by a userId query parameter, never a body
// field. The client reads the identity fresh from the session store at the
// moment of each authorized call and fails locally with
// session.ErrUnauthenticated when no identity is stored. Authorship of a post
// or comment is computed server-side and reported in the isAuthor field; the
// client never derives it from the local identity.
//
// # Failure semantics
//
// No call is retried automatically. Each attempt resolves to a single
// normalized *Error whose Kind distinguishes transport failures, envelope
// failures, and missing resources.
package board
