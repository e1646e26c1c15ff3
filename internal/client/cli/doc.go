// Package cli provides the interactive vizlab command-line client.
//
// It wires configuration, the persisted session store, the REST API client
// and the resource services into an interactive REPL. Typical flow: restore
// the previous session from disk, revalidate it against the backend, and
// execute user commands.
//
// Key features:
//   - Login / Logout / Register (with a development auth bypass)
//   - Dataset upload, listing, editing and deletion
//   - Visualization CRUD
//   - Analytics snapshots, CSV export and ad hoc queries
//   - Profile and password settings
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
