/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package adapter contains the built-in native mapping providers, one per
// supported CraftBukkit revision.
package adapter

import (
	"github.com/cockroachdb/errors"

	"github.com/lexfrei/nmscompat/pkg/nms"
)

// layout describes where a revision stores the spawned entity in spawner item NBT.
type layout int

const (
	// layoutEntityID: BlockEntityTag.EntityId with legacy names (1.8).
	layoutEntityID layout = iota
	// layoutLegacySpawnData: BlockEntityTag.SpawnData.id with legacy names (1.9, 1.10).
	layoutLegacySpawnData
	// layoutSpawnData: BlockEntityTag.SpawnData.id with namespaced keys (1.11 to 1.17).
	layoutSpawnData
	// layoutEntitySpawnData: BlockEntityTag.SpawnData.entity.id (1.18 and later).
	layoutEntitySpawnData
)

const (
	keyBlockEntity = "BlockEntityTag"
	keySpawnData   = "SpawnData"
	keyEntity      = "entity"
	keyID          = "id"
	keyEntityID    = "EntityId"
	namespace      = "minecraft:"
)

// builtin lists the bundled revisions in release order.
var builtin = []struct {
	tag    string
	layout layout
}{
	{"v1_8_R1", layoutEntityID},
	{"v1_8_R2", layoutEntityID},
	{"v1_8_R3", layoutEntityID},
	{"v1_9_R1", layoutLegacySpawnData},
	{"v1_9_R2", layoutLegacySpawnData},
	{"v1_10_R1", layoutLegacySpawnData},
	{"v1_11_R1", layoutSpawnData},
	{"v1_12_R1", layoutSpawnData},
	{"v1_13_R1", layoutSpawnData},
	{"v1_13_R2", layoutSpawnData},
	{"v1_14_R1", layoutSpawnData},
	{"v1_15_R1", layoutSpawnData},
	{"v1_16_R1", layoutSpawnData},
	{"v1_16_R2", layoutSpawnData},
	{"v1_16_R3", layoutSpawnData},
	{"v1_17_R1", layoutSpawnData},
	{"v1_18_R1", layoutEntitySpawnData},
	{"v1_18_R2", layoutEntitySpawnData},
	{"v1_19_R1", layoutEntitySpawnData},
	{"v1_19_R2", layoutEntitySpawnData},
	{"v1_19_R3", layoutEntitySpawnData},
	{"v1_20_R1", layoutEntitySpawnData},
	{"v1_20_R2", layoutEntitySpawnData},
	{"v1_20_R3", layoutEntitySpawnData},
	{"v1_20_R4", layoutEntitySpawnData},
}

// Tags returns the bundled revision tags in release order.
func Tags() []string {
	tags := make([]string, 0, len(builtin))
	for _, b := range builtin {
		tags = append(tags, b.tag)
	}

	return tags
}

// Register adds every bundled adapter to reg.
func Register(reg *nms.Registry) error {
	for _, b := range builtin {
		h := &handler{tag: b.tag, layout: b.layout}
		if err := reg.Register(b.tag, func() (nms.Provider, error) { return h, nil }); err != nil {
			return errors.Wrapf(err, "failed to register adapter %s", b.tag)
		}
	}

	return nil
}

// NewRegistry returns a registry populated with every bundled adapter.
func NewRegistry() *nms.Registry {
	reg := nms.NewRegistry()
	if err := Register(reg); err != nil {
		panic(err)
	}

	return reg
}

// handler implements nms.Provider for one revision.
type handler struct {
	tag    string
	layout layout
}

func (h *handler) Tag() string {
	return h.tag
}

func (h *handler) legacyNames() bool {
	return h.layout == layoutEntityID || h.layout == layoutLegacySpawnData
}

func (h *handler) EntityKey(entity string) string {
	key := nms.NormalizeEntity(entity)
	if h.legacyNames() {
		return legacyName(key)
	}

	return namespace + key
}

func (h *handler) SpawnerItemData(entity string) (nms.Compound, error) {
	key := nms.NormalizeEntity(entity)
	if !validKey(key) {
		return nil, errors.Newf("invalid entity %q", entity)
	}

	id := h.EntityKey(key)

	var blockEntity nms.Compound

	switch h.layout {
	case layoutEntityID:
		blockEntity = nms.Compound{keyEntityID: id}
	case layoutLegacySpawnData, layoutSpawnData:
		blockEntity = nms.Compound{keySpawnData: nms.Compound{keyID: id}}
	case layoutEntitySpawnData:
		blockEntity = nms.Compound{keySpawnData: nms.Compound{keyEntity: nms.Compound{keyID: id}}}
	default:
		return nil, errors.Newf("unknown layout %d", h.layout)
	}

	return nms.Compound{keyBlockEntity: blockEntity}, nil
}

func (h *handler) EntityFromSpawnerItem(data nms.Compound) (string, error) {
	blockEntity, ok := child(data, keyBlockEntity)
	if !ok {
		return "", errors.Wrapf(nms.ErrUnknownEntity, "missing %s", keyBlockEntity)
	}

	var raw string

	switch h.layout {
	case layoutEntityID:
		raw, ok = blockEntity[keyEntityID].(string)
	case layoutLegacySpawnData, layoutSpawnData:
		var spawnData nms.Compound
		if spawnData, ok = child(blockEntity, keySpawnData); ok {
			raw, ok = spawnData[keyID].(string)
		}
	case layoutEntitySpawnData:
		var spawnData, entity nms.Compound
		if spawnData, ok = child(blockEntity, keySpawnData); ok {
			if entity, ok = child(spawnData, keyEntity); ok {
				raw, ok = entity[keyID].(string)
			}
		}
	}

	if !ok || raw == "" {
		return "", errors.Wrapf(nms.ErrUnknownEntity, "revision %s", h.tag)
	}

	if h.legacyNames() {
		return fromLegacyName(raw), nil
	}

	return nms.NormalizeEntity(raw), nil
}

// child returns the nested compound under key. Both nms.Compound and plain
// maps are accepted since decoded NBT usually arrives as map[string]any.
func child(c nms.Compound, key string) (nms.Compound, bool) {
	switch v := c[key].(type) {
	case nms.Compound:
		return v, true
	case map[string]any:
		return v, true
	default:
		return nil, false
	}
}

func validKey(key string) bool {
	if key == "" {
		return false
	}

	for _, r := range key {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return false
		}
	}

	return true
}
