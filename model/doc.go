// Package model holds the canonical API description built by the
// aggregator and read by every emitter.
//
// A Document owns the merged operations, in the order their operation IDs
// were first seen, and the global metadata (info, servers, tags, security
// schemes). It is built once per run and treated as read-only afterward,
// which is what lets emitters run concurrently over it.
package model
