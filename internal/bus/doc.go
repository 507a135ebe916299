// Package bus implements the event bridge runtime: the envelope wire
// format, the handler registry, the publisher, and the dispatch loop
// that routes inbound envelopes to handlers.
//
// The public API is re-exported from the root eventbridge package;
// import that instead of this one.
package bus
