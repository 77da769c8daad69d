package plugins

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/lexfrei/go-hangar/pkg/hangar"
)

// ErrNoRelease is returned when a project has no downloadable PAPER release.
var ErrNoRelease = errors.New("no downloadable release")

// HangarClient looks up releases using the go-hangar library.
type HangarClient struct {
	client  *hangar.Client
	baseURL string
}

// NewHangarClient creates a new Hangar API client.
func NewHangarClient() *HangarClient {
	client := hangar.NewClient(hangar.Config{
		BaseURL: hangar.DefaultBaseURL,
		Timeout: hangar.DefaultTimeout,
	})

	return &HangarClient{
		client:  client,
		baseURL: hangar.DefaultBaseURL,
	}
}

// GetVersions retrieves all available versions for a plugin from Hangar.
func (c *HangarClient) GetVersions(ctx context.Context, project string) ([]PluginVersion, error) {
	proj, err := c.client.GetProject(ctx, project)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get project")
	}

	const maxVersions = 500
	owner := proj.Namespace.Owner
	slug := proj.Namespace.Slug

	versionsList, err := c.client.ListVersions(ctx, owner, slug, hangar.ListOptions{
		Limit: maxVersions,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list versions")
	}

	versions := make([]PluginVersion, 0, len(versionsList.Result))
	for _, v := range versionsList.Result {
		downloadURL, hash := c.extractPaperDownload(v, owner, slug)

		minecraftVersions := v.GameVersions
		if len(minecraftVersions) == 0 && v.PlatformDependencies != nil {
			minecraftVersions = v.PlatformDependencies["PAPER"]
		}

		versions = append(versions, PluginVersion{
			Version:           v.Name,
			ReleaseDate:       v.CreatedAt,
			MinecraftVersions: minecraftVersions,
			DownloadURL:       downloadURL,
			Hash:              hash,
		})
	}

	return versions, nil
}

// LatestRelease returns the most recently created version with a PAPER download.
func (c *HangarClient) LatestRelease(ctx context.Context, project string) (PluginVersion, error) {
	versions, err := c.GetVersions(ctx, project)
	if err != nil {
		return PluginVersion{}, err
	}

	var latest *PluginVersion

	for i := range versions {
		v := &versions[i]
		if v.DownloadURL == "" {
			continue
		}

		if latest == nil || v.ReleaseDate.After(latest.ReleaseDate) {
			latest = v
		}
	}

	if latest == nil {
		return PluginVersion{}, errors.Wrapf(ErrNoRelease, "project %s", project)
	}

	return *latest, nil
}

// extractPaperDownload resolves the PAPER download URL and hash for a version.
// Falls back to Hangar download API endpoint for externally-hosted plugins.
func (c *HangarClient) extractPaperDownload(v hangar.Version, owner, slug string) (string, string) {
	downloadURL := ""
	hash := ""

	downloadInfo, ok := v.Downloads["PAPER"]
	if !ok {
		return "", ""
	}

	if downloadInfo.DownloadURL != "" {
		downloadURL = downloadInfo.DownloadURL
	} else if downloadInfo.ExternalURL != "" && isDirectDownloadURL(downloadInfo.ExternalURL) {
		downloadURL = downloadInfo.ExternalURL
	}

	if downloadInfo.FileInfo != nil {
		hash = downloadInfo.FileInfo.SHA256Hash
	}

	if downloadURL == "" {
		downloadURL = fmt.Sprintf("%s/projects/%s/%s/versions/%s/PAPER/download",
			c.baseURL, owner, slug, v.Name)
	}

	return downloadURL, hash
}

// isDirectDownloadURL checks if a URL points to a direct file download
// rather than a web page (e.g., GitHub release page).
func isDirectDownloadURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	path := strings.ToLower(parsed.Path)

	if strings.HasSuffix(path, ".jar") || strings.HasSuffix(path, ".zip") {
		return true
	}

	return strings.HasSuffix(path, "/download") || strings.Contains(path, "/download/")
}
