// Package notifier implements tiered notification delivery.
//
// A notification is first sent to the primary recipients. If that fails, a
// different message reporting the failure goes to the backup recipients. If
// that fails too, the notifier waits a fixed delay and starts over from the
// primary tier. Every tier transition is logged with enough context to
// reconstruct delivery history, since none is persisted.
package notifier
