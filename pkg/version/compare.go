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

// Package version resolves Minecraft and Bukkit version strings into
// CraftBukkit revision tags.
package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
)

// ParseMinecraft parses a Minecraft or Bukkit version string.
// Bukkit versions carry a build suffix ("1.20.6-R0.1-SNAPSHOT"); only the
// part before the first dash is used, so "1.20.5-R0.1-SNAPSHOT" compares
// equal to "1.20.5".
func ParseMinecraft(raw string) (*semver.Version, error) {
	release, _, _ := strings.Cut(strings.TrimSpace(raw), "-")
	if release == "" {
		return nil, errors.New("empty version")
	}

	v, err := semver.NewVersion(release)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse version %q", raw)
	}

	return v, nil
}

// Compare compares two Minecraft version strings.
// Returns:
//
//	-1 if v1 < v2
//	 0 if v1 == v2
//	 1 if v1 > v2
func Compare(v1, v2 string) (int, error) {
	ver1, err := ParseMinecraft(v1)
	if err != nil {
		return 0, errors.Wrap(err, "failed to parse first version")
	}

	ver2, err := ParseMinecraft(v2)
	if err != nil {
		return 0, errors.Wrap(err, "failed to parse second version")
	}

	return ver1.Compare(ver2), nil
}

// IsNewerOrEqual reports whether raw is at or above the given release.
// Unparsable versions are never newer.
func IsNewerOrEqual(raw string, major, minor, patch uint64) bool {
	v, err := ParseMinecraft(raw)
	if err != nil {
		return false
	}

	return !v.LessThan(semver.New(major, minor, patch, "", ""))
}
