package world

// ChunkSize is the width and height, in tiles, of a single streamed chunk.
const ChunkSize = 32

// ChunkLoadRadius is how many chunks out from a player's current chunk are
// kept loaded, in each direction (a radius of 1 means a 3x3 grid).
const ChunkLoadRadius = 1

// TerrainType describes one entry in the shared terrain id table sent to
// clients so chunk payloads can carry tile ids instead of full tile data.
type TerrainType struct {
	ID       uint32
	Name     string
	Walkable bool
	SpriteID string
}

// FeatureType describes one entry in the shared feature id table (trees,
// rocks, and other chunk-local decorations that may block movement).
type FeatureType struct {
	ID             uint32
	Name           string
	BlocksMovement bool
	SpriteID       string
}

// terrainIndex is a compact subset of the walkable/blocking terrain
// catalogue; the full game-art catalogue of biome variants is out of scope.
var terrainIndex = []TerrainType{
	{ID: 0, Name: "grass", Walkable: true, SpriteID: "grass_01"},
	{ID: 10, Name: "forest_floor", Walkable: true, SpriteID: "forest_floor_01"},
	{ID: 30, Name: "hills", Walkable: true, SpriteID: "hills_grass"},
	{ID: 40, Name: "mountain_rock", Walkable: true, SpriteID: "mountain_rock_01"},
	{ID: 100, Name: "deep_water", Walkable: false, SpriteID: "water_deep"},
	{ID: 102, Name: "beach_sand", Walkable: true, SpriteID: "beach_sand"},
}

// featureIndex is a compact subset of the chunk-local decoration catalogue.
var featureIndex = []FeatureType{
	{ID: 1, Name: "tree_oak", BlocksMovement: true, SpriteID: "tree_oak"},
	{ID: 2, Name: "bush_green", BlocksMovement: false, SpriteID: "bush_green"},
	{ID: 3, Name: "rock_small", BlocksMovement: true, SpriteID: "rock_small"},
}

// TerrainIndex returns the shared terrain id table.
func TerrainIndex() []TerrainType {
	return terrainIndex
}

// FeatureIndex returns the shared feature id table.
func FeatureIndex() []FeatureType {
	return featureIndex
}

// ChunkFeature places a feature at a tile local to its containing chunk.
type ChunkFeature struct {
	LocalX    uint8 // 0-31
	LocalY    uint8 // 0-31
	FeatureID uint32
}

// ChunkCoord identifies a chunk by its integer chunk-grid coordinates.
type ChunkCoord struct {
	X int
	Y int
}

// Chunk is one 32x32-tile streamable unit of the map.
type Chunk struct {
	Coord    ChunkCoord
	Tiles    []uint32 // ChunkSize*ChunkSize terrain ids, row-major
	Features []ChunkFeature
}

// ChunkIndex partitions a Map into fixed-size chunks and answers queries
// about which chunks a player needs loaded.
type ChunkIndex struct {
	widthChunks  int
	heightChunks int
	chunks       map[ChunkCoord]*Chunk
}

// NewChunkIndex partitions m into ChunkSize x ChunkSize chunks. Tiles whose
// terrain type is not represented in terrainIndex fall back to id 0.
func NewChunkIndex(m *Map) *ChunkIndex {
	widthChunks := (m.Width + ChunkSize - 1) / ChunkSize
	heightChunks := (m.Height + ChunkSize - 1) / ChunkSize

	idx := &ChunkIndex{
		widthChunks:  widthChunks,
		heightChunks: heightChunks,
		chunks:       make(map[ChunkCoord]*Chunk, widthChunks*heightChunks),
	}

	for cy := 0; cy < heightChunks; cy++ {
		for cx := 0; cx < widthChunks; cx++ {
			coord := ChunkCoord{X: cx, Y: cy}
			idx.chunks[coord] = buildChunk(m, coord)
		}
	}

	return idx
}

func buildChunk(m *Map, coord ChunkCoord) *Chunk {
	tiles := make([]uint32, 0, ChunkSize*ChunkSize)

	for localY := 0; localY < ChunkSize; localY++ {
		for localX := 0; localX < ChunkSize; localX++ {
			worldX := coord.X*ChunkSize + localX
			worldY := coord.Y*ChunkSize + localY

			if worldX < m.Width && worldY < m.Height {
				tiles = append(tiles, terrainIDFor(m.GetTile(worldX, worldY).Type))
			} else {
				tiles = append(tiles, 0)
			}
		}
	}

	return &Chunk{Coord: coord, Tiles: tiles}
}

func terrainIDFor(t TileType) uint32 {
	switch t {
	case TileWater, TileLava:
		return 100
	case TileGrass:
		return 0
	case TileStone:
		return 40
	default:
		return 0
	}
}

// WorldToChunk converts a world-space pixel position to the chunk
// coordinate that contains it, given the tile size in pixels. Positions are
// always non-negative in practice, so plain integer division (truncating,
// matching the original Rust implementation) is equivalent to a floor.
func WorldToChunk(worldX, worldY float64, tileSize int) ChunkCoord {
	tileX := int(worldX) / tileSize
	tileY := int(worldY) / tileSize
	return ChunkCoord{X: tileX / ChunkSize, Y: tileY / ChunkSize}
}

// ChunkToWorld returns the pixel position of a chunk's top-left corner.
func ChunkToWorld(coord ChunkCoord, tileSize int) (float64, float64) {
	return float64(coord.X * ChunkSize * tileSize), float64(coord.Y * ChunkSize * tileSize)
}

// Get returns the chunk at coord, if it exists within the map bounds.
func (idx *ChunkIndex) Get(coord ChunkCoord) (*Chunk, bool) {
	c, ok := idx.chunks[coord]
	return c, ok
}

// ChunksNear returns the set of chunk coordinates a player standing at
// (worldX, worldY) should have loaded: the square grid of side
// 2*ChunkLoadRadius+1 centered on their current chunk, clipped to map bounds.
func (idx *ChunkIndex) ChunksNear(worldX, worldY float64, tileSize int) map[ChunkCoord]struct{} {
	center := WorldToChunk(worldX, worldY, tileSize)
	needed := make(map[ChunkCoord]struct{})

	for dy := -ChunkLoadRadius; dy <= ChunkLoadRadius; dy++ {
		for dx := -ChunkLoadRadius; dx <= ChunkLoadRadius; dx++ {
			cx, cy := center.X+dx, center.Y+dy
			if cx < 0 || cy < 0 || cx >= idx.widthChunks || cy >= idx.heightChunks {
				continue
			}
			needed[ChunkCoord{X: cx, Y: cy}] = struct{}{}
		}
	}

	return needed
}

// ChunkUpdate is the set of chunks to load and unload for a player this
// tick, relative to the chunks they currently have loaded.
type ChunkUpdate struct {
	ToLoad   []ChunkCoord
	ToUnload []ChunkCoord
}

// CalculateChunkUpdate diffs a player's currently-loaded chunk set against
// the chunk set they need, returning the chunks to load and unload.
func CalculateChunkUpdate(current, needed map[ChunkCoord]struct{}) ChunkUpdate {
	var update ChunkUpdate

	for coord := range needed {
		if _, ok := current[coord]; !ok {
			update.ToLoad = append(update.ToLoad, coord)
		}
	}
	for coord := range current {
		if _, ok := needed[coord]; !ok {
			update.ToUnload = append(update.ToUnload, coord)
		}
	}

	return update
}
