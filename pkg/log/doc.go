// Package log provides the structured logging abstraction used across
// safedial.
//
// Components accept a [Logger] and never reach for a global. The CLI wires a
// zerolog-backed adapter; libraries and tests default to [NoopLogger].
//
//	logger := log.NewZerologAdapter(os.Stderr, "debug")
//	logger.Info("conformance passed", log.Int("commands", n))
package log
