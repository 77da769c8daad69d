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

// Package artifact inspects a packaged plugin JAR for the adapter revisions
// it bundles.
package artifact

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrNoLocation is returned by a Source that cannot locate its artifact.
var ErrNoLocation = errors.New("artifact location unknown")

// maxDownloadSize caps JARs fetched over HTTP.
const maxDownloadSize = 128 << 20

// Archive is an opened JAR.
type Archive struct {
	*zip.Reader

	closer io.Closer
}

// Close releases the underlying file, if any.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}

	if err := a.closer.Close(); err != nil {
		return errors.Wrap(err, "failed to close archive")
	}

	return nil
}

// Source locates and opens a plugin artifact.
type Source interface {
	// Location describes where the artifact lives, for diagnostics.
	Location() string

	// Open opens the artifact. Returns ErrNoLocation when there is nothing to open.
	Open(ctx context.Context) (*Archive, error)
}

// NoSource is a Source without a location.
type NoSource struct{}

// Location implements Source.
func (NoSource) Location() string { return "" }

// Open implements Source.
func (NoSource) Open(_ context.Context) (*Archive, error) {
	return nil, ErrNoLocation
}

// FileSource opens a JAR on the local filesystem.
type FileSource struct {
	Path string
}

// Location implements Source.
func (s FileSource) Location() string { return s.Path }

// Open implements Source.
func (s FileSource) Open(ctx context.Context) (*Archive, error) {
	if s.Path == "" {
		return nil, ErrNoLocation
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rc, err := zip.OpenReader(s.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", s.Path)
	}

	return &Archive{Reader: &rc.Reader, closer: rc}, nil
}

// URLSource downloads a JAR over HTTP into memory.
type URLSource struct {
	URL        string
	HTTPClient *http.Client

	// SHA256 is the expected hex digest of the JAR. Empty skips verification.
	SHA256 string
}

// NewURLSource creates a URLSource with a default HTTP client.
func NewURLSource(url string) *URLSource {
	return &URLSource{
		URL: url,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Location implements Source.
func (s *URLSource) Location() string { return s.URL }

// Open implements Source.
func (s *URLSource) Open(ctx context.Context) (*Archive, error) {
	if s.URL == "" {
		return nil, ErrNoLocation
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read artifact")
	}

	if len(body) > maxDownloadSize {
		return nil, errors.Newf("artifact exceeds %d bytes", maxDownloadSize)
	}

	if s.SHA256 != "" {
		sum := sha256.Sum256(body)
		if got := hex.EncodeToString(sum[:]); !strings.EqualFold(got, s.SHA256) {
			return nil, errors.Newf("checksum mismatch: expected %s, got %s", s.SHA256, got)
		}
	}

	return OpenBytes(body)
}

// OpenBytes opens an in-memory JAR.
func OpenBytes(data []byte) (*Archive, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read archive")
	}

	return &Archive{Reader: r}, nil
}

// BytesSource serves a JAR held in memory.
type BytesSource struct {
	Name string
	Data []byte
}

// Location implements Source.
func (s BytesSource) Location() string { return s.Name }

// Open implements Source.
func (s BytesSource) Open(_ context.Context) (*Archive, error) {
	if s.Data == nil {
		return nil, ErrNoLocation
	}

	return OpenBytes(s.Data)
}
