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

package artifact

import (
	"archive/zip"
	"context"
	"net/url"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Metadata is the plugin descriptor found inside a JAR.
type Metadata struct {
	Name       string `yaml:"name"`
	Version    string `yaml:"version"`
	Main       string `yaml:"main"`
	APIVersion string `yaml:"api-version"`
	Website    string `yaml:"website"`
}

// ReadMetadata parses paper-plugin.yml, or plugin.yml when the former is absent.
func ReadMetadata(archive *Archive) (Metadata, error) {
	var pluginFile, paperPluginFile *zip.File

	for _, f := range archive.File {
		switch f.Name {
		case "plugin.yml":
			pluginFile = f
		case "paper-plugin.yml":
			paperPluginFile = f
		}
	}

	target := paperPluginFile
	if target == nil {
		target = pluginFile
	}

	if target == nil {
		return Metadata{}, errors.New("JAR contains neither plugin.yml nor paper-plugin.yml")
	}

	rc, err := target.Open()
	if err != nil {
		return Metadata{}, errors.Wrapf(err, "failed to open %s in JAR", target.Name)
	}
	defer func() { _ = rc.Close() }()

	var meta Metadata
	if err := yaml.NewDecoder(rc).Decode(&meta); err != nil {
		return Metadata{}, errors.Wrapf(err, "failed to parse %s", target.Name)
	}

	return meta, nil
}

// LoadMetadata opens src and reads its plugin descriptor.
func LoadMetadata(ctx context.Context, src Source) (Metadata, error) {
	if src == nil {
		return Metadata{}, ErrNoLocation
	}

	archive, err := src.Open(ctx)
	if err != nil {
		return Metadata{}, err
	}
	defer func() {
		_ = archive.Close()
	}()

	return ReadMetadata(archive)
}

// ValidateDownloadURL checks that a URL is usable as a remote artifact location.
func ValidateDownloadURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("URL is required")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.Wrap(err, "failed to parse URL")
	}

	if parsed.Scheme != "https" {
		return errors.Newf("URL must use HTTPS, got %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return errors.New("URL must have a valid host")
	}

	return nil
}
