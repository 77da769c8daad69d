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
	"context"
	"iter"
	"strings"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

const (
	// AdapterNamespace is the JAR path holding one directory per bundled revision.
	AdapterNamespace = "de/corneliusmay/silkspawners/nms/"

	// AdapterClass is the class name of the adapter inside each revision directory.
	AdapterClass = "NMSHandler"

	// NoVersionsMessage is reported when the artifact cannot be located.
	NoVersionsMessage = "Cannot get supported versions"
)

// AdapterClassName returns the fully qualified adapter class name for tag.
func AdapterClassName(tag string) string {
	return strings.ReplaceAll(AdapterNamespace, "/", ".") + tag + "." + AdapterClass
}

// Scan is a single-use sequence over the entry names of an archive.
type Scan struct {
	archive *Archive
	used    atomic.Bool
}

// NewScan creates a scan over archive. The archive stays owned by the caller.
func NewScan(archive *Archive) *Scan {
	return &Scan{archive: archive}
}

// Names yields entry names in archive order. Only the first range over the
// returned sequence sees entries; later ranges yield nothing.
func (s *Scan) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		if !s.used.CompareAndSwap(false, true) {
			return
		}

		for _, f := range s.archive.File {
			if !yield(f.Name) {
				return
			}
		}
	}
}

// TagFromEntry extracts the revision directory from an entry name such as
// "de/corneliusmay/silkspawners/nms/v1_16_R3/NMSHandler.class".
// Only subdirectories of the namespace whose name starts with "v" count;
// files placed directly in the namespace are rejected.
func TagFromEntry(name string) (string, bool) {
	rest, ok := strings.CutPrefix(name, AdapterNamespace)
	if !ok || !strings.HasPrefix(rest, "v") {
		return "", false
	}

	tag, _, isDir := strings.Cut(rest, "/")
	if !isDir {
		return "", false
	}

	return tag, true
}

// Tags yields each distinct revision tag in first-seen order.
func Tags(names iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := make(map[string]struct{})

		for name := range names {
			tag, ok := TagFromEntry(name)
			if !ok {
				continue
			}

			if _, dup := seen[tag]; dup {
				continue
			}

			seen[tag] = struct{}{}

			if !yield(tag) {
				return
			}
		}
	}
}

// ScanTags opens src and returns the bundled revision tags in archive order.
func ScanTags(ctx context.Context, src Source) ([]string, error) {
	if src == nil {
		return nil, ErrNoLocation
	}

	archive, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = archive.Close()
	}()

	tags := make([]string, 0)
	for tag := range Tags(NewScan(archive).Names()) {
		tags = append(tags, tag)
	}

	return tags, nil
}

// SupportedTags is ScanTags for diagnostics: it never fails. Without an
// artifact location it returns NoVersionsMessage, and on any other error a
// single entry carrying the error text.
func SupportedTags(ctx context.Context, src Source) []string {
	tags, err := ScanTags(ctx, src)
	if err == nil {
		return tags
	}

	return []string{DiagnosticFor(err)}
}

// DiagnosticFor returns the placeholder entry reported for a failed scan.
func DiagnosticFor(err error) string {
	if errors.Is(err, ErrNoLocation) {
		return NoVersionsMessage
	}

	return NoVersionsMessage + ": " + err.Error()
}
