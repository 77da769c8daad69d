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
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// JARServer publishes plugin JARs over HTTP for download tests.
type JARServer struct {
	server *httptest.Server

	mu       sync.Mutex
	jars     map[string][]byte
	status   map[string]int
	requests map[string]int
}

// NewJARServer starts a server that is closed when t finishes.
func NewJARServer(t testing.TB) *JARServer {
	t.Helper()

	s := &JARServer{
		jars:     make(map[string][]byte),
		status:   make(map[string]int),
		requests: make(map[string]int),
	}

	s.server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.server.Close)

	return s
}

func (s *JARServer) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)

		return
	}

	s.mu.Lock()
	s.requests[r.URL.Path]++
	status, failing := s.status[r.URL.Path]
	data, ok := s.jars[r.URL.Path]
	s.mu.Unlock()

	switch {
	case failing:
		http.Error(w, http.StatusText(status), status)
	case !ok:
		http.NotFound(w, r)
	default:
		w.Header().Set("Content-Type", "application/java-archive")
		_, _ = w.Write(data)
	}
}

// Publish serves data at path and returns its download URL and hex SHA256.
func (s *JARServer) Publish(path string, data []byte) (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jars[path] = data
	sum := sha256.Sum256(data)

	return s.server.URL + path, hex.EncodeToString(sum[:])
}

// FailWith makes every request for path answer with status.
func (s *JARServer) FailWith(path string, status int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status[path] = status

	return s.server.URL + path
}

// Requests returns how many GET requests reached path.
func (s *JARServer) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.requests[path]
}
