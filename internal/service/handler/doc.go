// Package handler implements per-event handling: it resolves the host's
// device key, reads the directory, and hands every matching entry to the
// notifier. When the directory cannot be read it alerts a fixed operational
// contact instead and retries the whole event after a fixed delay, forever.
package handler
