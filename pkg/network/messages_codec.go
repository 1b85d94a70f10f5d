package network

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// MessageCodec encodes and decodes the eleven wire message types exchanged
// between client and server, each framed behind a leading MessageType
// byte. It reuses the same fixed-header-then-length-prefixed-strings
// shape as BinaryProtocol's StateUpdate/InputCommand encoding.
type MessageCodec struct{}

// NewMessageCodec creates a message codec.
func NewMessageCodec() *MessageCodec {
	return &MessageCodec{}
}

func writeString(buf *bytes.Buffer, s string) {
	b := []byte(s)
	binary.Write(buf, binary.LittleEndian, uint16(len(b)))
	buf.Write(b)
}

func readString(buf *bytes.Reader) (string, error) {
	var length uint16
	if err := binary.Read(buf, binary.LittleEndian, &length); err != nil {
		return "", fmt.Errorf("failed to read string length: %w", err)
	}
	b := make([]byte, length)
	if length > 0 {
		if _, err := buf.Read(b); err != nil {
			return "", fmt.Errorf("failed to read string bytes: %w", err)
		}
	}
	return string(b), nil
}

func writeEntitySnapshot(buf *bytes.Buffer, e EntitySnapshot) {
	binary.Write(buf, binary.LittleEndian, e.EntityID)
	binary.Write(buf, binary.LittleEndian, e.X)
	binary.Write(buf, binary.LittleEndian, e.Y)
	binary.Write(buf, binary.LittleEndian, e.VX)
	binary.Write(buf, binary.LittleEndian, e.VY)
	writeString(buf, e.SpriteID)
	binary.Write(buf, binary.LittleEndian, e.HealthCurrent)
	binary.Write(buf, binary.LittleEndian, e.HealthMax)
	writeString(buf, e.Name)
	writeString(buf, e.Species)
	writeString(buf, e.Class)
	binary.Write(buf, binary.LittleEndian, e.Level)
	binary.Write(buf, binary.LittleEndian, e.Experience)
}

func readEntitySnapshot(buf *bytes.Reader) (EntitySnapshot, error) {
	var e EntitySnapshot
	var err error
	for _, field := range []interface{}{&e.EntityID, &e.X, &e.Y, &e.VX, &e.VY} {
		if err = binary.Read(buf, binary.LittleEndian, field); err != nil {
			return e, fmt.Errorf("failed to read entity snapshot field: %w", err)
		}
	}
	if e.SpriteID, err = readString(buf); err != nil {
		return e, err
	}
	if err = binary.Read(buf, binary.LittleEndian, &e.HealthCurrent); err != nil {
		return e, err
	}
	if err = binary.Read(buf, binary.LittleEndian, &e.HealthMax); err != nil {
		return e, err
	}
	if e.Name, err = readString(buf); err != nil {
		return e, err
	}
	if e.Species, err = readString(buf); err != nil {
		return e, err
	}
	if e.Class, err = readString(buf); err != nil {
		return e, err
	}
	if err = binary.Read(buf, binary.LittleEndian, &e.Level); err != nil {
		return e, err
	}
	if err = binary.Read(buf, binary.LittleEndian, &e.Experience); err != nil {
		return e, err
	}
	return e, nil
}

// EncodePlayerJoin serializes a PlayerJoin message, tagged with its type.
func (c *MessageCodec) EncodePlayerJoin(msg *PlayerJoin) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(MessageTypePlayerJoin))
	writeString(buf, msg.Name)
	writeString(buf, msg.Species)
	writeString(buf, msg.Class)
	return buf.Bytes(), nil
}

// DecodePlayerJoin deserializes a PlayerJoin message body (type byte
// already stripped by PeekMessageType).
func (c *MessageCodec) DecodePlayerJoin(data []byte) (*PlayerJoin, error) {
	buf := bytes.NewReader(data)
	msg := &PlayerJoin{}
	var err error
	if msg.Name, err = readString(buf); err != nil {
		return nil, err
	}
	if msg.Species, err = readString(buf); err != nil {
		return nil, err
	}
	if msg.Class, err = readString(buf); err != nil {
		return nil, err
	}
	return msg, nil
}

// EncodePlayerInput serializes a PlayerInput message.
func (c *MessageCodec) EncodePlayerInput(msg *PlayerInput) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(MessageTypePlayerInput))
	binary.Write(buf, binary.LittleEndian, msg.SequenceNumber)
	binary.Write(buf, binary.LittleEndian, msg.ClientTimeMS)
	binary.Write(buf, binary.LittleEndian, msg.MoveX)
	binary.Write(buf, binary.LittleEndian, msg.MoveY)
	buf.WriteByte(byte(msg.Action))
	return buf.Bytes(), nil
}

// DecodePlayerInput deserializes a PlayerInput message body.
func (c *MessageCodec) DecodePlayerInput(data []byte) (*PlayerInput, error) {
	if len(data) < 21 {
		return nil, fmt.Errorf("data too short for player input: %d bytes", len(data))
	}
	buf := bytes.NewReader(data)
	msg := &PlayerInput{}
	if err := binary.Read(buf, binary.LittleEndian, &msg.SequenceNumber); err != nil {
		return nil, err
	}
	if err := binary.Read(buf, binary.LittleEndian, &msg.ClientTimeMS); err != nil {
		return nil, err
	}
	if err := binary.Read(buf, binary.LittleEndian, &msg.MoveX); err != nil {
		return nil, err
	}
	if err := binary.Read(buf, binary.LittleEndian, &msg.MoveY); err != nil {
		return nil, err
	}
	action, err := buf.ReadByte()
	if err != nil {
		return nil, err
	}
	msg.Action = Action(action)
	return msg, nil
}

// EncodePing serializes a Ping message.
func (c *MessageCodec) EncodePing(msg *Ping) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(MessageTypePing))
	binary.Write(buf, binary.LittleEndian, msg.Nonce)
	return buf.Bytes(), nil
}

// DecodePing deserializes a Ping message body.
func (c *MessageCodec) DecodePing(data []byte) (*Ping, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("data too short for ping: %d bytes", len(data))
	}
	buf := bytes.NewReader(data)
	msg := &Ping{}
	if err := binary.Read(buf, binary.LittleEndian, &msg.Nonce); err != nil {
		return nil, err
	}
	return msg, nil
}

// EncodeChatMessage serializes a ChatMessage.
func (c *MessageCodec) EncodeChatMessage(msg *ChatMessage) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(MessageTypeChatMessage))
	writeString(buf, msg.Text)
	return buf.Bytes(), nil
}

// DecodeChatMessage deserializes a ChatMessage body.
func (c *MessageCodec) DecodeChatMessage(data []byte) (*ChatMessage, error) {
	buf := bytes.NewReader(data)
	text, err := readString(buf)
	if err != nil {
		return nil, err
	}
	return &ChatMessage{Text: text}, nil
}

// EncodeInteractDoor serializes an InteractDoor message.
func (c *MessageCodec) EncodeInteractDoor(msg *InteractDoor) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(MessageTypeInteractDoor))
	binary.Write(buf, binary.LittleEndian, msg.TargetEntityID)
	return buf.Bytes(), nil
}

// DecodeInteractDoor deserializes an InteractDoor body.
func (c *MessageCodec) DecodeInteractDoor(data []byte) (*InteractDoor, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("data too short for interact door: %d bytes", len(data))
	}
	buf := bytes.NewReader(data)
	msg := &InteractDoor{}
	if err := binary.Read(buf, binary.LittleEndian, &msg.TargetEntityID); err != nil {
		return nil, err
	}
	return msg, nil
}

// EncodeRequestChunks serializes a RequestChunks message.
func (c *MessageCodec) EncodeRequestChunks(msg *RequestChunks) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(MessageTypeRequestChunks))
	binary.Write(buf, binary.LittleEndian, uint16(len(msg.Coords)))
	for _, coord := range msg.Coords {
		binary.Write(buf, binary.LittleEndian, coord.X)
		binary.Write(buf, binary.LittleEndian, coord.Y)
	}
	return buf.Bytes(), nil
}

// DecodeRequestChunks deserializes a RequestChunks body.
func (c *MessageCodec) DecodeRequestChunks(data []byte) (*RequestChunks, error) {
	buf := bytes.NewReader(data)
	var count uint16
	if err := binary.Read(buf, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("failed to read chunk count: %w", err)
	}
	coords := make([]ChunkCoordWire, count)
	for i := range coords {
		if err := binary.Read(buf, binary.LittleEndian, &coords[i].X); err != nil {
			return nil, err
		}
		if err := binary.Read(buf, binary.LittleEndian, &coords[i].Y); err != nil {
			return nil, err
		}
	}
	return &RequestChunks{Coords: coords}, nil
}

// EncodeGameStateSnapshot serializes a GameStateSnapshot message.
func (c *MessageCodec) EncodeGameStateSnapshot(msg *GameStateSnapshot) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(MessageTypeGameStateSnapshot))
	writeString(buf, msg.MapID)
	writeString(buf, msg.MapName)
	binary.Write(buf, binary.LittleEndian, msg.PlayerEntityID)
	binary.Write(buf, binary.LittleEndian, uint16(len(msg.Entities)))
	for _, e := range msg.Entities {
		writeEntitySnapshot(buf, e)
	}
	return buf.Bytes(), nil
}

// DecodeGameStateSnapshot deserializes a GameStateSnapshot body.
func (c *MessageCodec) DecodeGameStateSnapshot(data []byte) (*GameStateSnapshot, error) {
	buf := bytes.NewReader(data)
	msg := &GameStateSnapshot{}
	var err error
	if msg.MapID, err = readString(buf); err != nil {
		return nil, err
	}
	if msg.MapName, err = readString(buf); err != nil {
		return nil, err
	}
	if err = binary.Read(buf, binary.LittleEndian, &msg.PlayerEntityID); err != nil {
		return nil, err
	}
	var count uint16
	if err = binary.Read(buf, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	msg.Entities = make([]EntitySnapshot, count)
	for i := range msg.Entities {
		if msg.Entities[i], err = readEntitySnapshot(buf); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

// EncodeGameStateDelta serializes a GameStateDelta message.
func (c *MessageCodec) EncodeGameStateDelta(msg *GameStateDelta) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(MessageTypeGameStateDelta))
	binary.Write(buf, binary.LittleEndian, msg.SequenceNumber)

	binary.Write(buf, binary.LittleEndian, uint16(len(msg.EntitiesUpdated)))
	for _, e := range msg.EntitiesUpdated {
		writeEntitySnapshot(buf, e)
	}
	binary.Write(buf, binary.LittleEndian, uint16(len(msg.EntitiesSpawned)))
	for _, e := range msg.EntitiesSpawned {
		writeEntitySnapshot(buf, e)
	}
	binary.Write(buf, binary.LittleEndian, uint16(len(msg.EntitiesDespawned)))
	for _, id := range msg.EntitiesDespawned {
		binary.Write(buf, binary.LittleEndian, id)
	}
	return buf.Bytes(), nil
}

// DecodeGameStateDelta deserializes a GameStateDelta body.
func (c *MessageCodec) DecodeGameStateDelta(data []byte) (*GameStateDelta, error) {
	buf := bytes.NewReader(data)
	msg := &GameStateDelta{}

	if err := binary.Read(buf, binary.LittleEndian, &msg.SequenceNumber); err != nil {
		return nil, err
	}

	var updatedCount uint16
	if err := binary.Read(buf, binary.LittleEndian, &updatedCount); err != nil {
		return nil, err
	}
	msg.EntitiesUpdated = make([]EntitySnapshot, updatedCount)
	for i := range msg.EntitiesUpdated {
		e, err := readEntitySnapshot(buf)
		if err != nil {
			return nil, err
		}
		msg.EntitiesUpdated[i] = e
	}

	var spawnedCount uint16
	if err := binary.Read(buf, binary.LittleEndian, &spawnedCount); err != nil {
		return nil, err
	}
	msg.EntitiesSpawned = make([]EntitySnapshot, spawnedCount)
	for i := range msg.EntitiesSpawned {
		e, err := readEntitySnapshot(buf)
		if err != nil {
			return nil, err
		}
		msg.EntitiesSpawned[i] = e
	}

	var despawnedCount uint16
	if err := binary.Read(buf, binary.LittleEndian, &despawnedCount); err != nil {
		return nil, err
	}
	msg.EntitiesDespawned = make([]uint64, despawnedCount)
	for i := range msg.EntitiesDespawned {
		if err := binary.Read(buf, binary.LittleEndian, &msg.EntitiesDespawned[i]); err != nil {
			return nil, err
		}
	}

	return msg, nil
}

// EncodeChunksLoaded serializes a ChunksLoaded message.
func (c *MessageCodec) EncodeChunksLoaded(msg *ChunksLoaded) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(MessageTypeChunksLoaded))
	binary.Write(buf, binary.LittleEndian, uint16(len(msg.Chunks)))
	for _, chunk := range msg.Chunks {
		binary.Write(buf, binary.LittleEndian, chunk.ChunkX)
		binary.Write(buf, binary.LittleEndian, chunk.ChunkY)
		binary.Write(buf, binary.LittleEndian, uint32(len(chunk.Tiles)))
		for _, tile := range chunk.Tiles {
			binary.Write(buf, binary.LittleEndian, tile)
		}
		binary.Write(buf, binary.LittleEndian, uint16(len(chunk.Features)))
		for _, f := range chunk.Features {
			buf.WriteByte(f.LocalX)
			buf.WriteByte(f.LocalY)
			binary.Write(buf, binary.LittleEndian, f.FeatureID)
		}
	}
	return buf.Bytes(), nil
}

// DecodeChunksLoaded deserializes a ChunksLoaded body.
func (c *MessageCodec) DecodeChunksLoaded(data []byte) (*ChunksLoaded, error) {
	buf := bytes.NewReader(data)
	var chunkCount uint16
	if err := binary.Read(buf, binary.LittleEndian, &chunkCount); err != nil {
		return nil, err
	}

	chunks := make([]ChunkDataWire, chunkCount)
	for i := range chunks {
		if err := binary.Read(buf, binary.LittleEndian, &chunks[i].ChunkX); err != nil {
			return nil, err
		}
		if err := binary.Read(buf, binary.LittleEndian, &chunks[i].ChunkY); err != nil {
			return nil, err
		}
		var tileCount uint32
		if err := binary.Read(buf, binary.LittleEndian, &tileCount); err != nil {
			return nil, err
		}
		chunks[i].Tiles = make([]uint32, tileCount)
		for t := range chunks[i].Tiles {
			if err := binary.Read(buf, binary.LittleEndian, &chunks[i].Tiles[t]); err != nil {
				return nil, err
			}
		}
		var featureCount uint16
		if err := binary.Read(buf, binary.LittleEndian, &featureCount); err != nil {
			return nil, err
		}
		chunks[i].Features = make([]ChunkFeatureWire, featureCount)
		for f := range chunks[i].Features {
			localX, err := buf.ReadByte()
			if err != nil {
				return nil, err
			}
			localY, err := buf.ReadByte()
			if err != nil {
				return nil, err
			}
			var featureID uint32
			if err := binary.Read(buf, binary.LittleEndian, &featureID); err != nil {
				return nil, err
			}
			chunks[i].Features[f] = ChunkFeatureWire{LocalX: localX, LocalY: localY, FeatureID: featureID}
		}
	}
	return &ChunksLoaded{Chunks: chunks}, nil
}

// EncodeChunksUnloaded serializes a ChunksUnloaded message.
func (c *MessageCodec) EncodeChunksUnloaded(msg *ChunksUnloaded) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(MessageTypeChunksUnloaded))
	binary.Write(buf, binary.LittleEndian, uint16(len(msg.Coords)))
	for _, coord := range msg.Coords {
		binary.Write(buf, binary.LittleEndian, coord.X)
		binary.Write(buf, binary.LittleEndian, coord.Y)
	}
	return buf.Bytes(), nil
}

// DecodeChunksUnloaded deserializes a ChunksUnloaded body.
func (c *MessageCodec) DecodeChunksUnloaded(data []byte) (*ChunksUnloaded, error) {
	buf := bytes.NewReader(data)
	var count uint16
	if err := binary.Read(buf, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	coords := make([]ChunkCoordWire, count)
	for i := range coords {
		if err := binary.Read(buf, binary.LittleEndian, &coords[i].X); err != nil {
			return nil, err
		}
		if err := binary.Read(buf, binary.LittleEndian, &coords[i].Y); err != nil {
			return nil, err
		}
	}
	return &ChunksUnloaded{Coords: coords}, nil
}

// EncodeDeathMessage serializes a DeathMessage.
func (c *MessageCodec) EncodeDeathMessage(msg *DeathMessage) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(MessageTypeDeath))
	binary.Write(buf, binary.LittleEndian, msg.EntityID)
	binary.Write(buf, binary.LittleEndian, msg.TimeOfDeath)
	binary.Write(buf, binary.LittleEndian, msg.KillerID)
	binary.Write(buf, binary.LittleEndian, uint16(len(msg.DroppedItemIDs)))
	for _, id := range msg.DroppedItemIDs {
		binary.Write(buf, binary.LittleEndian, id)
	}
	binary.Write(buf, binary.LittleEndian, msg.SequenceNumber)
	return buf.Bytes(), nil
}

// DecodeDeathMessage deserializes a DeathMessage body.
func (c *MessageCodec) DecodeDeathMessage(data []byte) (*DeathMessage, error) {
	buf := bytes.NewReader(data)
	msg := &DeathMessage{}
	if err := binary.Read(buf, binary.LittleEndian, &msg.EntityID); err != nil {
		return nil, err
	}
	if err := binary.Read(buf, binary.LittleEndian, &msg.TimeOfDeath); err != nil {
		return nil, err
	}
	if err := binary.Read(buf, binary.LittleEndian, &msg.KillerID); err != nil {
		return nil, err
	}
	var dropped uint16
	if err := binary.Read(buf, binary.LittleEndian, &dropped); err != nil {
		return nil, err
	}
	msg.DroppedItemIDs = make([]uint64, dropped)
	for i := range msg.DroppedItemIDs {
		if err := binary.Read(buf, binary.LittleEndian, &msg.DroppedItemIDs[i]); err != nil {
			return nil, err
		}
	}
	if err := binary.Read(buf, binary.LittleEndian, &msg.SequenceNumber); err != nil {
		return nil, err
	}
	return msg, nil
}

// PeekMessageType reads the leading type byte of a framed message
// without consuming the rest, so a dispatcher can route to the right
// Decode* method.
func PeekMessageType(data []byte) (MessageType, []byte, error) {
	if len(data) < 1 {
		return 0, nil, fmt.Errorf("empty message")
	}
	return MessageType(data[0]), data[1:], nil
}
