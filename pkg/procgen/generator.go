package procgen

// GenerationParams contains parameters that control content generation.
type GenerationParams struct {
	// Difficulty affects the challenge level of generated content (0.0-1.0)
	Difficulty float64

	// Depth represents how far into the game this content appears
	Depth int

	// GenreID influences the style and theme of generated content
	GenreID string

	// Custom carries additional generator-specific parameters
	Custom map[string]interface{}
}

// Generator is the base interface for all procedural generation systems.
// Generators produce deterministic output based on a seed value.
type Generator interface {
	// Generate creates content based on the seed and parameters
	Generate(seed int64, params GenerationParams) (interface{}, error)

	// Validate checks if the generated content is valid
	Validate(result interface{}) error
}
