// Package handlers implements the HTTP API: spreadsheet upload and batch
// creation, job progress polling, artifact download, session wipe, and table
// conversion. Every handler scopes its lookups by the session ID the
// middleware put in the request context.
package handlers
