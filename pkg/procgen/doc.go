// Package procgen provides the shared GenerationParams type and Generator
// interface for procedural generation. The only generator in this repository
// is terrain.BSPGenerator (subpackage terrain); entities, items, magic and
// skills are not generated procedurally.
//
// Generators use deterministic algorithms based on seed values to ensure
// reproducible content generation.
package procgen
