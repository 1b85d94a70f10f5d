// Package terrain provides procedural dungeon generation.
//
// The only generation strategy is BSP (Binary Space Partitioning), which
// produces structured dungeon layouts of rooms joined by L-shaped corridors.
// BSPGenerator is deterministic based on the seed value and follows the
// Generator interface from the parent procgen package.
//
// # Tile Types
//
// The package has four tile types: Wall, Floor, Door and Corridor.
//
// # Genre
//
// GenerationParams.GenreID is accepted but does not affect the generated
// terrain; there are no genre themes.
//
// # Usage Example
//
// Basic dungeon generation (width and height default to 80x50 when not set):
//
//	gen := terrain.NewBSPGenerator()
//	params := procgen.GenerationParams{
//	    Difficulty: 0.5,
//	    Depth:      1,
//	    GenreID:    "fantasy",
//	    Custom: map[string]interface{}{
//	        "width":  100,
//	        "height": 80,
//	    },
//	}
//	result, err := gen.Generate(12345, params)
//	terrain := result.(*terrain.Terrain)
//
// # Validation
//
// BSPGenerator.Validate checks that at least one room was generated and that
// every room lies within the terrain bounds. It does not check walkable area
// or connectivity.
package terrain
