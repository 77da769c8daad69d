// Package plugins looks up published plugin releases.
package plugins

import (
	"context"
	"time"
)

// PluginVersion contains metadata about a plugin version.
type PluginVersion struct {
	// Version is the plugin version string.
	Version string
	// ReleaseDate is when this version was released.
	ReleaseDate time.Time
	// MinecraftVersions lists the Minecraft versions the author declares support for.
	MinecraftVersions []string
	// DownloadURL is the URL to download this version's JAR.
	DownloadURL string
	// Hash is the SHA256 hash of the JAR file.
	Hash string
}

// ReleaseFinder finds the newest downloadable release of a plugin.
type ReleaseFinder interface {
	LatestRelease(ctx context.Context, project string) (PluginVersion, error)
}
