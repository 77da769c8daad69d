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

package testutil

import (
	"archive/zip"
	"bytes"
	"slices"
	"strings"
)

// JAREntry is one file in a test JAR.
type JAREntry struct {
	Name    string
	Content string
}

// BuildTestJAR creates an in-memory JAR (ZIP) file with a single entry.
// Panics on error since this is a test utility.
func BuildTestJAR(filename, content string) []byte {
	return BuildTestJARMulti(map[string]string{filename: content})
}

// BuildTestJARMulti creates an in-memory JAR (ZIP) file with multiple entries,
// written in sorted name order.
// Panics on error since this is a test utility.
func BuildTestJARMulti(files map[string]string) []byte {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}

	slices.Sort(names)

	entries := make([]JAREntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, JAREntry{Name: name, Content: files[name]})
	}

	return BuildTestJAREntries(entries...)
}

// BuildTestJAREntries creates an in-memory JAR keeping the given entry order.
// Names ending in "/" become directory entries.
// Panics on error since this is a test utility.
func BuildTestJAREntries(entries ...JAREntry) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, e := range entries {
		f, err := w.Create(e.Name)
		if err != nil {
			panic("BuildTestJAREntries: " + err.Error())
		}

		if strings.HasSuffix(e.Name, "/") {
			continue
		}

		if _, err := f.Write([]byte(e.Content)); err != nil {
			panic("BuildTestJAREntries: " + err.Error())
		}
	}

	if err := w.Close(); err != nil {
		panic("BuildTestJAREntries: " + err.Error())
	}

	return buf.Bytes()
}

// BuildAdapterJAR creates a plugin JAR bundling an adapter class for each tag.
func BuildAdapterJAR(namespace string, tags ...string) []byte {
	entries := []JAREntry{
		{Name: "plugin.yml", Content: "name: SilkSpawners\nmain: de.corneliusmay.silkspawners.plugin.SilkSpawners"},
	}

	for _, tag := range tags {
		entries = append(entries, JAREntry{Name: namespace + tag + "/NMSHandler.class", Content: "\xca\xfe\xba\xbe"})
	}

	return BuildTestJAREntries(entries...)
}
