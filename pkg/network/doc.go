// Package network provides the server side of multiplayer networking:
// client-server communication and state synchronization.
//
// Key features:
// - Binary protocol serialization (BinaryProtocol, MessageCodec)
// - A WebSocket Server with per-client input rate limiting
// - GameStateDelta messages that carry only changed entities
// - MockServer for tests, a pooled byte buffer, and ComponentSerializer
//
// The package has no client-side prediction, entity interpolation, or
// lag compensation.
package network
