package world

import "testing"

func TestWorldToChunk(t *testing.T) {
	tests := []struct {
		x, y float64
		want ChunkCoord
	}{
		{0, 0, ChunkCoord{0, 0}},
		{1024, 1024, ChunkCoord{1, 1}},
		{2048, 2048, ChunkCoord{2, 2}},
		{500, 500, ChunkCoord{0, 0}},
		{1100, 1100, ChunkCoord{1, 1}},
	}

	for _, tt := range tests {
		got := WorldToChunk(tt.x, tt.y, 32)
		if got != tt.want {
			t.Errorf("WorldToChunk(%v,%v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestChunkToWorld(t *testing.T) {
	tests := []struct {
		coord ChunkCoord
		wantX float64
		wantY float64
	}{
		{ChunkCoord{0, 0}, 0, 0},
		{ChunkCoord{1, 1}, 1024, 1024},
		{ChunkCoord{2, 2}, 2048, 2048},
	}

	for _, tt := range tests {
		x, y := ChunkToWorld(tt.coord, 32)
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("ChunkToWorld(%v) = (%v,%v), want (%v,%v)", tt.coord, x, y, tt.wantX, tt.wantY)
		}
	}
}

func TestNewChunkIndexPartitionsMap(t *testing.T) {
	m := NewMap(64, 64, 1)
	idx := NewChunkIndex(m)

	for _, coord := range []ChunkCoord{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		chunk, ok := idx.Get(coord)
		if !ok {
			t.Fatalf("expected chunk %v to exist", coord)
		}
		if len(chunk.Tiles) != ChunkSize*ChunkSize {
			t.Errorf("chunk %v has %d tiles, want %d", coord, len(chunk.Tiles), ChunkSize*ChunkSize)
		}
	}

	if _, ok := idx.Get(ChunkCoord{2, 0}); ok {
		t.Error("expected chunk (2,0) to not exist for a 64-tile-wide map")
	}
}

func TestNewChunkIndexPartialEdgeChunk(t *testing.T) {
	// 40 tiles wide needs 2 chunks along X (32 + 8 remainder).
	m := NewMap(40, 32, 1)
	idx := NewChunkIndex(m)

	if _, ok := idx.Get(ChunkCoord{1, 0}); !ok {
		t.Fatal("expected a partial edge chunk at (1,0)")
	}
	if _, ok := idx.Get(ChunkCoord{2, 0}); ok {
		t.Error("did not expect a chunk beyond the map's chunk width")
	}
}

func TestChunksNearReturns3x3Grid(t *testing.T) {
	m := NewMap(320, 320, 1) // 10x10 chunks
	idx := NewChunkIndex(m)

	// Top-left corner of chunk (5,5): world x = 5*32*32 = 5120, well within bounds.
	needed := idx.ChunksNear(5120, 5120, 32)
	if len(needed) != 9 {
		t.Errorf("expected 9 chunks in a 3x3 grid, got %d", len(needed))
	}
	if _, ok := needed[ChunkCoord{5, 5}]; !ok {
		t.Error("expected the center chunk to be included")
	}
}

func TestChunksNearClipsToMapBounds(t *testing.T) {
	m := NewMap(64, 64, 1) // 2x2 chunks
	idx := NewChunkIndex(m)

	// Near origin: the 3x3 grid around (0,0) only has 4 valid chunks.
	needed := idx.ChunksNear(0, 0, 32)
	if len(needed) != 4 {
		t.Errorf("expected 4 in-bounds chunks near origin, got %d", len(needed))
	}
}

func TestCalculateChunkUpdate(t *testing.T) {
	current := map[ChunkCoord]struct{}{
		{0, 0}: {}, {1, 0}: {}, {0, 1}: {},
	}
	needed := map[ChunkCoord]struct{}{
		{1, 0}: {}, {0, 1}: {}, {1, 1}: {},
	}

	update := CalculateChunkUpdate(current, needed)

	if len(update.ToLoad) != 1 || update.ToLoad[0] != (ChunkCoord{1, 1}) {
		t.Errorf("ToLoad = %v, want [(1,1)]", update.ToLoad)
	}
	if len(update.ToUnload) != 1 || update.ToUnload[0] != (ChunkCoord{0, 0}) {
		t.Errorf("ToUnload = %v, want [(0,0)]", update.ToUnload)
	}
}

func TestCalculateChunkUpdateNoChange(t *testing.T) {
	same := map[ChunkCoord]struct{}{{2, 2}: {}}
	update := CalculateChunkUpdate(same, same)

	if len(update.ToLoad) != 0 || len(update.ToUnload) != 0 {
		t.Errorf("expected no changes, got %+v", update)
	}
}

func TestTerrainAndFeatureIndexNotEmpty(t *testing.T) {
	if len(TerrainIndex()) == 0 {
		t.Error("expected a non-empty terrain index")
	}
	if len(FeatureIndex()) == 0 {
		t.Error("expected a non-empty feature index")
	}
}
