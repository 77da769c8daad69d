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

package adapter

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Pre-1.11 entity names that are not the CamelCase form of the modern key.
var legacyExceptions = map[string]string{
	"zombie_pigman":    "PigZombie",
	"zombified_piglin": "PigZombie",
	"iron_golem":       "VillagerGolem",
	"mooshroom":        "MushroomCow",
	"magma_cube":       "LavaSlime",
	"snow_golem":       "SnowMan",
	"ocelot":           "Ozelot",
	"wither":           "WitherBoss",
	"horse":            "EntityHorse",
	"tnt_minecart":     "MinecartTNT",
}

var modernFromLegacy = func() map[string]string {
	m := make(map[string]string, len(legacyExceptions))
	for modern, legacy := range legacyExceptions {
		// zombified_piglin is the 1.16 rename; map back to the older key.
		if modern == "zombified_piglin" {
			continue
		}

		m[legacy] = modern
	}

	return m
}()

// legacyName converts "cave_spider" to "CaveSpider".
func legacyName(key string) string {
	if name, ok := legacyExceptions[key]; ok {
		return name
	}

	title := cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))

	return strings.ReplaceAll(title, " ", "")
}

// fromLegacyName converts "CaveSpider" to "cave_spider".
func fromLegacyName(name string) string {
	if key, ok := modernFromLegacy[name]; ok {
		return key
	}

	var b strings.Builder

	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}

			r = unicode.ToLower(r)
		}

		b.WriteRune(r)
	}

	return b.String()
}
