// Package logging builds the structured logger shared by the CLI and the HTTP server.
// Logs go to the writer given to NewLogger, JSON for machines or text for terminals,
// and the same configuration is supplied to Fx by the root package.
package logging
