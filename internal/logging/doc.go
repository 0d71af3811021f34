// Package logging provides structured logging for the coachsite server and CLI.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the site. It provides both general logging functions
// and specialized functions for request, session and lifecycle logging.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Field changes, websocket pings, template rendering details
//   - Info: Requests, booking sessions, lifecycle transitions
//   - Warn: Dropped overlay events, sink failures, slow shutdowns
//   - Error: Startup failures, unexpected handler errors
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Booking session opened",
//	    zap.String("session", "4f6c..."),
//	    zap.String("service", "Corporate Team Building"),
//	)
//
// # Specialized Logging
//
// Request Logging:
//
//	logging.LogRequest(method, path, status, duration)
//
// Session Logging:
//
//	logging.LogSession(sessionID, "opened")
//	logging.LogSession(sessionID, "closed")
//
// Lifecycle Logging:
//
//	logging.LogTransition(sessionID, "idle", "submitting")
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.Initialize("debug", ""); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// An empty level falls back to the COACHSITE_LOG_LEVEL environment variable.
// When neither is set logging is silent, which keeps the terminal booking form
// free of log noise. A non-empty file path adds a JSON file sink rotated by
// lumberjack alongside the console output.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
