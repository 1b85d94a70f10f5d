// Package engine provides the core game engine functionality including the Entity-Component-System (ECS)
// framework, game loop management, and fundamental game mechanics.
//
// The engine package is the foundation of the game, managing entity lifecycle,
// component registration, system execution, and the main update loop.
package engine
