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

import "strings"

const (
	// ModernTag is the tag used for every server at or above the modern threshold.
	// Since 1.20.5 Paper ships a Mojang-mapped runtime, so the CraftBukkit
	// package no longer carries a revision suffix.
	ModernTag = "v1_20_R4"

	// CraftBukkitPackage is the implementation package prefix of Bukkit servers.
	CraftBukkitPackage = "org.bukkit.craftbukkit"
)

// Modern threshold: 1.20.5.
const (
	modernMajor = 1
	modernMinor = 20
	modernPatch = 5
)

// ResolveTag returns the revision tag for a host.
// apiVersion is the Bukkit version string, implPackage the package name of
// the server implementation class. It never fails: a host whose package has
// no dots yields the whole package name.
func ResolveTag(apiVersion, implPackage string) string {
	if IsModern(apiVersion) {
		return ModernTag
	}

	return implPackage[strings.LastIndex(implPackage, ".")+1:]
}

// IsModern reports whether apiVersion is at or above 1.20.5.
func IsModern(apiVersion string) bool {
	return IsNewerOrEqual(apiVersion, modernMajor, modernMinor, modernPatch)
}

// ImplementationPackage returns the CraftBukkit package name for a tag.
func ImplementationPackage(tag string) string {
	if tag == "" {
		return CraftBukkitPackage
	}

	return CraftBukkitPackage + "." + tag
}

// PackageFor returns the implementation package a server of the given
// Minecraft version exposes. Modern servers use the bare CraftBukkit package.
// For unknown versions it returns the bare package and false.
func PackageFor(minecraftVersion string) (string, bool) {
	tag, ok := RevisionTag(minecraftVersion)
	if !ok || tag == ModernTag {
		return CraftBukkitPackage, ok
	}

	return ImplementationPackage(tag), true
}
