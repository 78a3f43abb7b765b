// Package cli implements the appship command tree.
//
// Every command resolves credentials through the shared App, builds an API
// client on demand and delegates the actual work to the media engine or the
// api package. Commands never call os.Exit themselves; errors propagate to
// the caller of App.Run.
package cli
