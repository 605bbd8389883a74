// Package logger provides a small wrapper around zap to offer:
//   - a sugared logger with a sane console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing.
//
// There is no package-level logger: the entry point builds one instance and
// hands it to every component at construction time.
package logger
