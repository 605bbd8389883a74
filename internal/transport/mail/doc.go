// Package mail is the outbound message transport: it composes plain-text
// messages and submits them to an SMTP relay.
package mail
