// Package cli is the interactive interntrack client.
//
// NewApp wires the local state file, the auth provider, the primary API
// client, the optional backing store and the client services; App.Run
// restores the previous session and search and then blocks in a simple
// line-oriented REPL until the user exits.
//
// Signed out, the REPL accepts signin, signup, reset and recover. Signed in,
// it adds profile editing and avatar upload, internship search and
// tracking, the application roster and keyword alerts. Type "help" for the
// full list.
package cli
