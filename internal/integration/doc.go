// Package integration holds end-to-end tests that run the whole monitor
// pipeline in-process against fake hardware and mail.
package integration
