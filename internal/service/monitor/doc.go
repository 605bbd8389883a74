// Package monitor samples the freezer contact and dispatches every level
// transition to a concurrently running event handler.
//
// Run is the process entry point: it loads settings, builds the directory,
// transport, notifier and handler, starts the optional status and metrics
// endpoints and blocks in the sampling loop until the process is signaled.
package monitor
