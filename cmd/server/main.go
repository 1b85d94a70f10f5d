// Command server runs the authoritative Ashfall game server: it builds the
// simulation world, generates (or loads) the starting map, accepts player
// connections, and drives the fixed-rate tick loop.
package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/ashfall-game/server/pkg/combat"
	"github.com/ashfall-game/server/pkg/config"
	"github.com/ashfall-game/server/pkg/engine"
	"github.com/ashfall-game/server/pkg/network"
	"github.com/ashfall-game/server/pkg/procgen"
	"github.com/ashfall-game/server/pkg/procgen/terrain"
	gameworld "github.com/ashfall-game/server/pkg/world"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// tileSizePixels is the pixel footprint of one map tile, used to convert
// entity positions into chunk coordinates.
const tileSizePixels = 32

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	logger := logrus.New()
	if level, parseErr := logrus.ParseLevel(cfg.LogLevel); parseErr == nil {
		logger.SetLevel(level)
	}
	log := logger.WithFields(logrus.Fields{"component": "main"})

	log.WithFields(logrus.Fields{
		"bind_address": cfg.BindAddress(),
		"max_players":  cfg.MaxPlayers,
		"tick_rate":    config.TickRate,
	}).Info("starting ashfall game server")

	world := engine.NewWorld()

	inputBuffer := engine.NewInputBuffer()
	movementSystem := &engine.MovementSystem{}
	collisionSystem := engine.NewCollisionSystem(64.0)
	combatSystem := engine.NewCombatSystemWithLogger(logger)
	abilitySystem := engine.NewAbilitySystemWithLogger(logger)
	inputSystem := engine.NewInputSystem(world, inputBuffer, abilitySystem, combatSystem)
	aiSystem := engine.NewAISystem(world)
	progressionSystem := engine.NewProgressionSystem(world)
	inventorySystem := engine.NewInventorySystem(world)
	itemPickupSystem := engine.NewItemPickupSystem(world)

	// inputSystem runs first so a player's queued movement and action land
	// before movement integration, AI, and combat see this tick's entities.
	world.AddSystem(inputSystem)
	world.AddSystem(movementSystem)
	world.AddSystem(collisionSystem)
	world.AddSystem(aiSystem)
	world.AddSystem(combatSystem)
	world.AddSystem(inventorySystem)
	world.AddSystem(itemPickupSystem)
	world.AddSystem(progressionSystem)

	spawnManager := engine.NewSpawnPointManagerWithLogger(world, logger)

	worldMap := gameworld.NewMap(cfg.ProceduralWidth, cfg.ProceduralHeight, cfg.ProceduralSeed)
	if cfg.UseProceduralMap {
		log.Info("generating procedural map")
		generatedTerrain, genErr := generateTerrain(cfg)
		if genErr != nil {
			log.WithError(genErr).Fatal("failed to generate terrain")
		}
		seedSpawnPoints(spawnManager, generatedTerrain, cfg.ProceduralSeed)
		applyTerrainToMap(worldMap, generatedTerrain)
	}
	chunkIndex := gameworld.NewChunkIndex(worldMap)

	serverConfig := network.DefaultServerConfig()
	serverConfig.Address = cfg.BindAddress()
	serverConfig.MaxPlayers = cfg.MaxPlayers
	serverConfig.UpdateRate = config.TickRate

	server := network.NewServer(serverConfig)
	if err := server.Start(); err != nil {
		log.WithError(err).Fatal("failed to start network server")
	}
	log.WithField("address", serverConfig.Address).Info("network server listening")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	players := newPlayerRegistry()

	go func() {
		for playerErr := range server.ReceiveError() {
			log.WithError(playerErr).Warn("network error")
		}
	}()

	tickLoop := engine.NewTickLoopWithLogger(world, spawnManager, config.TickRate, prometheus.DefaultRegisterer, logger)

	snapshotCodec := network.NewMessageCodec()

	deathBroadcaster := newDeathBroadcaster(server, players, snapshotCodec)
	combatSystem.SetDeathCallback(deathBroadcaster.broadcast)

	go func() {
		for join := range server.ReceivePlayerJoin() {
			species := parseSpecies(join.Species)
			class := parseClass(join.Class)
			name := join.Name
			if name == "" {
				name = fmt.Sprintf("Player%d", join.PlayerID)
			}

			entity := spawnPlayer(world, join.PlayerID, name, species, class)
			players.set(join.PlayerID, entity)
			tickLoop.MarkEntitySpawned(entity.ID)
			log.WithFields(logrus.Fields{"player_id": join.PlayerID, "entity_id": entity.ID, "species": species, "class": class}).Info("player joined")

			sendJoinSnapshot(server, snapshotCodec, world, worldMap, join.PlayerID, entity.ID)
		}
	}()

	go func() {
		for playerID := range server.ReceivePlayerLeave() {
			if entity, ok := players.remove(playerID); ok {
				world.RemoveEntity(entity.ID)
				tickLoop.MarkEntityDespawned(entity.ID)
				inputBuffer.Remove(playerID)
				log.WithFields(logrus.Fields{"player_id": playerID, "entity_id": entity.ID}).Info("player left")
			}
		}
	}()

	go func() {
		for cmd := range server.ReceiveInputCommand() {
			if _, ok := players.get(cmd.PlayerID); !ok {
				continue
			}
			submitInputCommand(inputBuffer, cmd)
		}
	}()

	chunkStreamer := newChunkStreamer(chunkIndex, server)

	go func() {
		for req := range server.ReceiveChunkRequest() {
			chunkStreamer.requestChunks(req.PlayerID, req.Coords)
		}
	}()

	broadcastTicker := time.NewTicker(time.Second / time.Duration(config.TickRate))
	defer broadcastTicker.Stop()

	go func() {
		for range broadcastTicker.C {
			broadcastEntityChanges(world, server, snapshotCodec, players, tickLoop.Changes())
			chunkStreamer.sync(players)
		}
	}()

	tickLoop.Run(ctx)

	log.Info("shutting down")
	if err := server.Stop(); err != nil {
		log.WithError(err).Warn("error stopping network server")
	}
}

// playerRegistry maps connected player IDs to their avatar entities.
type playerRegistry struct {
	mu      sync.RWMutex
	entries map[uint64]*engine.Entity
}

func newPlayerRegistry() *playerRegistry {
	return &playerRegistry{entries: make(map[uint64]*engine.Entity)}
}

func (r *playerRegistry) set(id uint64, e *engine.Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = e
}

func (r *playerRegistry) get(id uint64) (*engine.Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

// all returns a snapshot of connected player IDs to their avatar entities.
func (r *playerRegistry) all() map[uint64]*engine.Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make(map[uint64]*engine.Entity, len(r.entries))
	for id, e := range r.entries {
		snapshot[id] = e
	}
	return snapshot
}

func (r *playerRegistry) remove(id uint64) (*engine.Entity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	return e, ok
}

// generateTerrain runs the procedural BSP generator against the configured
// seed and dimensions.
func generateTerrain(cfg config.Config) (*terrain.Terrain, error) {
	gen := terrain.NewBSPGenerator()
	params := procgen.GenerationParams{
		Difficulty: 0.5,
		Depth:      1,
		GenreID:    "fantasy",
		Custom: map[string]interface{}{
			"width":  cfg.ProceduralWidth,
			"height": cfg.ProceduralHeight,
		},
	}
	result, err := gen.Generate(cfg.ProceduralSeed, params)
	if err != nil {
		return nil, err
	}
	return result.(*terrain.Terrain), nil
}

// applyTerrainToMap copies a generated BSP terrain's tile grid onto the
// chunk-streamable world map, so chunk payloads reflect actual rooms and
// corridors instead of an all-walkable void.
func applyTerrainToMap(m *gameworld.Map, terr *terrain.Terrain) {
	for y := 0; y < terr.Height && y < m.Height; y++ {
		for x := 0; x < terr.Width && x < m.Width; x++ {
			switch terr.GetTile(x, y) {
			case terrain.TileWall:
				m.SetTile(x, y, gameworld.Tile{Type: gameworld.TileStone, Walkable: false})
			case terrain.TileDoor:
				m.SetTile(x, y, gameworld.Tile{Type: gameworld.TileDoor, Walkable: true})
			default: // TileFloor, TileCorridor
				m.SetTile(x, y, gameworld.Tile{Type: gameworld.TileFloor, Walkable: true})
			}
		}
	}
}

// seedSpawnPoints places a handful of monster spawn points in generated
// rooms, skipping the first (reserved for player spawn).
func seedSpawnPoints(manager *engine.SpawnPointManager, terr *terrain.Terrain, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	monsterTypes := []string{"giant_rat", "goblin", "skeleton", "wolf"}

	for i, room := range terr.Rooms {
		if i == 0 {
			continue // reserved for player spawn
		}
		x := float64(room.X+room.Width/2) * 32
		y := float64(room.Y+room.Height/2) * 32
		monsterType := monsterTypes[rng.Intn(len(monsterTypes))]
		manager.AddSpawnPoint(monsterType, x, y, false)
	}
}

// spawnPlayer creates a fresh player-controlled entity at the default spawn
// point with empty inventory and with max HP and stats derived from the
// species/class the client chose during its join handshake.
func spawnPlayer(world *engine.World, playerID uint64, displayName string, species combat.Species, class combat.Class) *engine.Entity {
	e := world.CreateEntity()

	maxHP := combat.CalculateMaxHP(species, class)

	e.AddComponent(&engine.PositionComponent{X: 400, Y: 300})
	e.AddComponent(&engine.VelocityComponent{})
	e.AddComponent(&engine.HealthComponent{Current: float64(maxHP), Max: float64(maxHP)})
	e.AddComponent(engine.NewStatsComponent(combat.CalculateStats(species, class)))
	e.AddComponent(&engine.CharacterComponent{Species: species, Class: class, Level: 1})
	e.AddComponent(&engine.ArmorClassComponent{Value: combat.ClassArmorClass(class)})
	e.AddComponent(&engine.AttackSpeedComponent{CooldownMS: 1000})
	e.AddComponent(&engine.CooldownsComponent{})
	e.AddComponent(&engine.TeamComponent{TeamID: 1})
	e.AddComponent(&engine.PlayerComponent{DisplayName: displayName, ConnectionID: playerID})
	e.AddComponent(engine.NewInventoryComponent(20))
	e.AddComponent(engine.NewEquipmentComponent())
	e.AddComponent(&engine.NetworkComponent{PlayerID: playerID, Synced: true})
	e.AddComponent(&engine.ColliderComponent{Radius: 16, Solid: true, Layer: 1})
	e.AddComponent(&engine.SpriteComponent{SpriteID: playerSpriteID(species, class)})
	e.AddComponent(&engine.MovementSpeedComponent{PixelsPerSecond: 200.0})

	return e
}

// playerSpriteID derives the client sprite sheet key from species and class,
// matching the naming the teacher's sprite assets already use.
func playerSpriteID(species combat.Species, class combat.Class) string {
	return fmt.Sprintf("player_%s_%s", strings.ToLower(species.String()), strings.ToLower(class.String()))
}

// parseSpecies maps a client-chosen species name onto the combat enum,
// defaulting to Human for anything unrecognized rather than rejecting the
// join outright.
func parseSpecies(name string) combat.Species {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "elf":
		return combat.Elf
	case "dwarf":
		return combat.Dwarf
	case "halfling":
		return combat.Halfling
	case "half-orc", "halforc":
		return combat.HalfOrc
	case "gnome":
		return combat.Gnome
	default:
		return combat.Human
	}
}

// parseClass maps a client-chosen class name onto the combat enum,
// defaulting to Fighter for anything unrecognized.
func parseClass(name string) combat.Class {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rogue":
		return combat.Rogue
	case "cleric":
		return combat.Cleric
	case "wizard":
		return combat.Wizard
	case "ranger":
		return combat.Ranger
	case "barbarian":
		return combat.Barbarian
	default:
		return combat.Fighter
	}
}

// submitInputCommand decodes a client input command and writes it into the
// pending-input buffer as that player's latest intent. It never touches
// ECS state directly; InputSystem drains the buffer once per tick, so a
// burst of input commands between ticks only ever affects the most recent
// one, and the tick loop remains the only goroutine that mutates entities.
func submitInputCommand(buffer *engine.InputBuffer, cmd *network.InputCommand) {
	if cmd.InputType != "move" || len(cmd.Data) < 3 {
		return
	}

	moveX := float64(int8(cmd.Data[0])) / 127.0
	moveY := float64(int8(cmd.Data[1])) / 127.0

	intent := engine.PlayerIntent{MoveX: moveX, MoveY: moveY}
	switch network.Action(cmd.Data[2]) {
	case network.ActionAttack:
		intent.Action = engine.PlayerActionAttack
	case network.ActionInteract:
		intent.Action = engine.PlayerActionInteract
	}

	buffer.Submit(cmd.PlayerID, intent)
}

// sendJoinSnapshot replies to a freshly joined player with every entity
// within vision range of its spawn point, so the client can render the
// world immediately instead of waiting for the next few delta ticks to
// populate it piecemeal.
func sendJoinSnapshot(server *network.Server, codec *network.MessageCodec, world *engine.World, worldMap *gameworld.Map, playerID, entityID uint64) {
	avatar, ok := world.GetEntity(entityID)
	if !ok {
		return
	}
	pos := avatar.GetPosition()
	if pos == nil {
		return
	}

	var entities []network.EntitySnapshot
	for _, e := range world.GetEntitiesWith("position") {
		otherPos := e.GetPosition()
		dx := otherPos.X - pos.X
		dy := otherPos.Y - pos.Y
		if math.Sqrt(dx*dx+dy*dy) > engine.VisionRangePixels {
			continue
		}
		entities = append(entities, entitySnapshotFor(e))
	}

	snapshot := &network.GameStateSnapshot{
		MapID:          fmt.Sprintf("%s_%d", worldMap.Genre, worldMap.Seed),
		MapName:        worldMap.Genre,
		PlayerEntityID: entityID,
		Entities:       entities,
	}

	data, err := codec.EncodeGameStateSnapshot(snapshot)
	if err != nil {
		return
	}
	_ = server.SendRawMessage(playerID, data)
}

// entitySnapshotFor flattens an entity's relevant components into the wire
// snapshot shape; fields without a matching component are left zero-valued.
func entitySnapshotFor(e *engine.Entity) network.EntitySnapshot {
	snap := network.EntitySnapshot{EntityID: e.ID}

	if pos := e.GetPosition(); pos != nil {
		snap.X, snap.Y = float32(pos.X), float32(pos.Y)
	}
	if vel := e.GetVelocity(); vel != nil {
		snap.VX, snap.VY = float32(vel.VX), float32(vel.VY)
	}
	if health := e.GetHealth(); health != nil {
		snap.HealthCurrent, snap.HealthMax = int32(health.Current), int32(health.Max)
	}
	if char := e.GetCharacter(); char != nil {
		snap.Species = char.Species.String()
		snap.Class = char.Class.String()
		snap.Level = uint32(char.Level)
		snap.Experience = uint32(char.XP)
	}
	if spriteComp, ok := e.GetComponent("sprite"); ok {
		if sprite, ok := spriteComp.(*engine.SpriteComponent); ok {
			snap.SpriteID = sprite.SpriteID
		}
	}
	if playerComp, ok := e.GetComponent("player"); ok {
		if player, ok := playerComp.(*engine.PlayerComponent); ok {
			snap.Name = player.DisplayName
		}
	} else if monsterComp, ok := e.GetComponent("monster"); ok {
		if monster, ok := monsterComp.(*engine.MonsterComponent); ok {
			snap.Name = monster.MonsterType
		}
	}

	return snap
}

// broadcastEntityChanges sends each connected player a GameStateDelta
// describing every entity that spawned, moved, or despawned since the last
// tick, narrowed to that player's vision range so a crowded map doesn't
// spam clients with entities they can't see.
func broadcastEntityChanges(world *engine.World, server *network.Server, codec *network.MessageCodec, players *playerRegistry, changes engine.EntityChanges) {
	if len(changes.Spawned) == 0 && len(changes.Updated) == 0 && len(changes.Despawned) == 0 {
		return
	}

	for playerID, avatar := range players.all() {
		pos := avatar.GetPosition()
		if pos == nil {
			continue
		}

		visible := engine.FilterChangesByVision(world, changes, *pos)
		if len(visible.Spawned) == 0 && len(visible.Updated) == 0 && len(visible.Despawned) == 0 {
			continue
		}

		delta := &network.GameStateDelta{EntitiesDespawned: visible.Despawned}
		for _, entityID := range visible.Spawned {
			if e, ok := world.GetEntity(entityID); ok {
				delta.EntitiesSpawned = append(delta.EntitiesSpawned, entitySnapshotFor(e))
			}
		}
		for _, entityID := range visible.Updated {
			if e, ok := world.GetEntity(entityID); ok {
				delta.EntitiesUpdated = append(delta.EntitiesUpdated, entitySnapshotFor(e))
			}
		}

		data, err := codec.EncodeGameStateDelta(delta)
		if err != nil {
			continue
		}
		_ = server.SendRawMessage(playerID, data)
	}
}

// deathBroadcaster turns CombatSystem's death callback into a DeathMessage
// sent to every connected player, so clients can play a death animation
// and reconcile the entity's disappearance instead of inferring it from a
// despawn id with no context.
type deathBroadcaster struct {
	server  *network.Server
	players *playerRegistry
	codec   *network.MessageCodec

	mu  sync.Mutex
	seq uint32
}

func newDeathBroadcaster(server *network.Server, players *playerRegistry, codec *network.MessageCodec) *deathBroadcaster {
	return &deathBroadcaster{server: server, players: players, codec: codec}
}

// broadcast is a CombatSystem.SetDeathCallback target. CombatSystem detects
// deaths during its own tick-phase sweep rather than at the moment a blow
// lands, so no killer id is available here; KillerID is left zero.
func (d *deathBroadcaster) broadcast(entity *engine.Entity) {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	d.mu.Unlock()

	msg := &network.DeathMessage{
		EntityID:       entity.ID,
		TimeOfDeath:    float64(time.Now().UnixMilli()),
		SequenceNumber: seq,
	}

	data, err := d.codec.EncodeDeathMessage(msg)
	if err != nil {
		return
	}
	for playerID := range d.players.all() {
		_ = d.server.SendRawMessage(playerID, data)
	}
}

// chunkStreamer tracks which map chunks each player currently has loaded
// and pushes ChunksLoaded/ChunksUnloaded messages as players move between
// chunk boundaries, mirroring the proximity streaming a tiled open world
// needs instead of shipping the whole map up front.
type chunkStreamer struct {
	index  *gameworld.ChunkIndex
	server *network.Server
	codec  *network.MessageCodec

	mu     sync.Mutex
	loaded map[uint64]map[gameworld.ChunkCoord]struct{}
}

func newChunkStreamer(index *gameworld.ChunkIndex, server *network.Server) *chunkStreamer {
	return &chunkStreamer{
		index:  index,
		server: server,
		codec:  network.NewMessageCodec(),
		loaded: make(map[uint64]map[gameworld.ChunkCoord]struct{}),
	}
}

// sync recomputes each connected player's needed chunk set against what
// it last had loaded and sends the resulting load/unload messages.
func (cs *chunkStreamer) sync(players *playerRegistry) {
	for playerID, avatar := range players.all() {
		pos := avatar.GetPosition()
		if pos == nil {
			continue
		}

		needed := cs.index.ChunksNear(pos.X, pos.Y, tileSizePixels)

		cs.mu.Lock()
		current, ok := cs.loaded[playerID]
		if !ok {
			current = make(map[gameworld.ChunkCoord]struct{})
		}
		update := gameworld.CalculateChunkUpdate(current, needed)
		cs.loaded[playerID] = needed
		cs.mu.Unlock()

		cs.sendLoaded(playerID, update.ToLoad)
		cs.sendUnloaded(playerID, update.ToUnload)
	}
}

// requestChunks answers an explicit RequestChunks message with whichever
// of the requested coordinates exist, without touching the player's
// tracked loaded set (a proactive request doesn't change what proximity
// streaming will later try to unload).
func (cs *chunkStreamer) requestChunks(playerID uint64, coords []network.ChunkCoordWire) {
	requested := make([]gameworld.ChunkCoord, len(coords))
	for i, c := range coords {
		requested[i] = gameworld.ChunkCoord{X: int(c.X), Y: int(c.Y)}
	}
	cs.sendLoaded(playerID, requested)
}

func (cs *chunkStreamer) sendLoaded(playerID uint64, coords []gameworld.ChunkCoord) {
	if len(coords) == 0 {
		return
	}

	chunks := make([]network.ChunkDataWire, 0, len(coords))
	for _, coord := range coords {
		chunk, ok := cs.index.Get(coord)
		if !ok {
			continue
		}
		features := make([]network.ChunkFeatureWire, len(chunk.Features))
		for i, f := range chunk.Features {
			features[i] = network.ChunkFeatureWire{LocalX: f.LocalX, LocalY: f.LocalY, FeatureID: f.FeatureID}
		}
		chunks = append(chunks, network.ChunkDataWire{
			ChunkX:   int32(coord.X),
			ChunkY:   int32(coord.Y),
			Tiles:    chunk.Tiles,
			Features: features,
		})
	}
	if len(chunks) == 0 {
		return
	}

	data, err := cs.codec.EncodeChunksLoaded(&network.ChunksLoaded{Chunks: chunks})
	if err != nil {
		return
	}
	_ = cs.server.SendRawMessage(playerID, data)
}

func (cs *chunkStreamer) sendUnloaded(playerID uint64, coords []gameworld.ChunkCoord) {
	if len(coords) == 0 {
		return
	}

	wire := make([]network.ChunkCoordWire, len(coords))
	for i, coord := range coords {
		wire[i] = network.ChunkCoordWire{X: int32(coord.X), Y: int32(coord.Y)}
	}

	data, err := cs.codec.EncodeChunksUnloaded(&network.ChunksUnloaded{Coords: wire})
	if err != nil {
		return
	}
	_ = cs.server.SendRawMessage(playerID, data)
}
