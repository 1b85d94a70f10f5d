package network

// MessageType identifies the payload carried by a framed wire message.
// Client-to-server and server-to-client types share one numbering space
// so a single byte on the wire disambiguates every message this server
// exchanges with a connected client.
type MessageType uint8

const (
	MessageTypePlayerJoin MessageType = iota + 1
	MessageTypePlayerInput
	MessageTypePing
	MessageTypeChatMessage
	MessageTypeInteractDoor
	MessageTypeRequestChunks
	MessageTypeGameStateSnapshot
	MessageTypeGameStateDelta
	MessageTypeChunksLoaded
	MessageTypeChunksUnloaded
	MessageTypeDeath
)

// Action identifies the discrete action requested by a PlayerInput message.
type Action uint8

const (
	ActionNone Action = iota
	ActionAttack
	ActionInteract
)

// PlayerJoin is sent by a newly connecting client to choose a character.
type PlayerJoin struct {
	Name    string
	Species string
	Class   string
}

// PlayerInput carries one tick's worth of movement/action intent. It
// overwrites whatever input the server had pending for that player;
// there is no queueing of stale frames.
type PlayerInput struct {
	SequenceNumber uint32
	ClientTimeMS   uint64
	MoveX, MoveY   float32
	Action         Action
}

// Ping is an empty round-trip acknowledgement request; the server
// answers by echoing a Ping with the same Nonce.
type Ping struct {
	Nonce uint64
}

// ChatMessage is an opaque string relayed between players.
type ChatMessage struct {
	Text string
}

// InteractDoor requests that the server toggle the door entity named by
// TargetEntityID, if one exists in interaction range.
type InteractDoor struct {
	TargetEntityID uint64
}

// RequestChunks asks the server to (re)send specific chunk coordinates,
// independent of the proximity-driven streaming the tick loop already
// does — used when a client teleports or first loads a distant area.
type RequestChunks struct {
	Coords []ChunkCoordWire
}

// ChunkCoordWire is the wire form of a chunk coordinate pair.
type ChunkCoordWire struct {
	X, Y int32
}

// EntitySnapshot is the full per-entity payload sent in a snapshot or in
// the spawned/updated lists of a delta.
type EntitySnapshot struct {
	EntityID      uint64
	X, Y          float32
	VX, VY        float32
	SpriteID      string
	HealthCurrent int32
	HealthMax     int32
	Name          string
	Species       string
	Class         string
	Level         uint32
	Experience    uint32
}

// GameStateSnapshot is sent once, in reply to PlayerJoin, carrying every
// entity within vision range of the new player's spawn point.
type GameStateSnapshot struct {
	MapID          string
	MapName        string
	PlayerEntityID uint64
	Entities       []EntitySnapshot
}

// GameStateDelta is broadcast every tick to report what changed since
// the last one: full data for spawned/updated entities, ids only for
// despawned ones.
type GameStateDelta struct {
	SequenceNumber   uint32
	EntitiesUpdated  []EntitySnapshot
	EntitiesSpawned  []EntitySnapshot
	EntitiesDespawned []uint64
}

// ChunkFeatureWire is the wire form of a chunk feature placement.
type ChunkFeatureWire struct {
	LocalX, LocalY uint8
	FeatureID      uint32
}

// ChunkDataWire carries one chunk's full tile grid and feature list.
type ChunkDataWire struct {
	ChunkX, ChunkY int32
	Tiles          []uint32 // ChunkSize*ChunkSize tile ids
	Features       []ChunkFeatureWire
}

// ChunksLoaded delivers full payloads for chunks the client should start
// rendering, either because the player moved near them or because the
// client explicitly asked for them via RequestChunks.
type ChunksLoaded struct {
	Chunks []ChunkDataWire
}

// ChunksUnloaded tells the client it can discard the named chunks; they
// are no longer within streaming range.
type ChunksUnloaded struct {
	Coords []ChunkCoordWire
}
