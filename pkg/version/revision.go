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

package version

import (
	"github.com/Masterminds/semver/v3"
)

type revision struct {
	constraint *semver.Constraints
	tag        string
}

// revisions maps Minecraft releases to CraftBukkit revisions.
var revisions = mustRevisions([][2]string{
	{">=1.8.0, <1.8.3", "v1_8_R1"},
	{"1.8.3", "v1_8_R2"},
	{">=1.8.4, <1.9.0", "v1_8_R3"},
	{">=1.9.0, <1.9.4", "v1_9_R1"},
	{">=1.9.4, <1.10.0", "v1_9_R2"},
	{"1.10.x", "v1_10_R1"},
	{"1.11.x", "v1_11_R1"},
	{"1.12.x", "v1_12_R1"},
	{"1.13.0", "v1_13_R1"},
	{">=1.13.1, <1.14.0", "v1_13_R2"},
	{"1.14.x", "v1_14_R1"},
	{"1.15.x", "v1_15_R1"},
	{">=1.16.0, <1.16.2", "v1_16_R1"},
	{">=1.16.2, <1.16.4", "v1_16_R2"},
	{">=1.16.4, <1.17.0", "v1_16_R3"},
	{"1.17.x", "v1_17_R1"},
	{">=1.18.0, <1.18.2", "v1_18_R1"},
	{">=1.18.2, <1.19.0", "v1_18_R2"},
	{">=1.19.0, <1.19.3", "v1_19_R1"},
	{"1.19.3", "v1_19_R2"},
	{">=1.19.4, <1.20.0", "v1_19_R3"},
	{">=1.20.0, <1.20.2", "v1_20_R1"},
	{"1.20.2", "v1_20_R2"},
	{">=1.20.3, <1.20.5", "v1_20_R3"},
})

func mustRevisions(table [][2]string) []revision {
	out := make([]revision, 0, len(table))

	for _, row := range table {
		c, err := semver.NewConstraint(row[0])
		if err != nil {
			panic("invalid revision constraint " + row[0] + ": " + err.Error())
		}

		out = append(out, revision{constraint: c, tag: row[1]})
	}

	return out
}

// RevisionTag returns the CraftBukkit revision tag a server of the given
// Minecraft version exposes in its implementation package.
// Releases at or above 1.20.5 map to ModernTag. Anything after the first
// dash is ignored, so "1.13-pre7" maps like "1.13". Versions older than 1.8
// are not known.
func RevisionTag(minecraftVersion string) (string, bool) {
	if IsModern(minecraftVersion) {
		return ModernTag, true
	}

	v, err := ParseMinecraft(minecraftVersion)
	if err != nil {
		return "", false
	}

	for _, r := range revisions {
		if r.constraint.Check(v) {
			return r.tag, true
		}
	}

	return "", false
}
