// Package nms defines the per-version native mapping capability and the
// registry that selects one implementation per server revision.
package nms

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUnknownEntity is returned when spawner item data names no entity.
var ErrUnknownEntity = errors.New("no entity in spawner item data")

// Compound is an NBT compound tag.
type Compound map[string]any

// Provider gives access to server internals that differ between
// CraftBukkit revisions.
type Provider interface {
	// Tag returns the revision tag this provider was built for.
	Tag() string

	// EntityKey returns the identifier this revision uses for entity,
	// e.g. "minecraft:cave_spider" or "CaveSpider".
	EntityKey(entity string) string

	// SpawnerItemData builds the item NBT that makes a spawner item place
	// a spawner of the given entity.
	SpawnerItemData(entity string) (Compound, error)

	// EntityFromSpawnerItem reads the entity back from spawner item NBT.
	// The result is a namespaced key without the "minecraft:" prefix.
	EntityFromSpawnerItem(data Compound) (string, error)
}

// NormalizeEntity lower-cases entity and strips the "minecraft:" namespace.
// Returns an empty string for an empty input.
func NormalizeEntity(entity string) string {
	e := strings.ToLower(strings.TrimSpace(entity))

	return strings.TrimPrefix(e, "minecraft:")
}
