// Package events turns build progress into events and fans them out to sinks:
// the SQLite event store, the in-memory build history and a NATS subject.
package events
