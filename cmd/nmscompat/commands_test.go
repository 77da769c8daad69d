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

package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexfrei/nmscompat/pkg/artifact"
	mccron "github.com/lexfrei/nmscompat/pkg/cron"
	"github.com/lexfrei/nmscompat/pkg/plugins"
	"github.com/lexfrei/nmscompat/pkg/rcon"
	"github.com/lexfrei/nmscompat/pkg/testutil"
)

type fakeFinder struct {
	release plugins.PluginVersion
	err     error
}

func (f *fakeFinder) LatestRelease(_ context.Context, _ string) (plugins.PluginVersion, error) {
	return f.release, f.err
}

func testDeps(client rcon.Client) deps {
	return deps{
		paper:  &testutil.MockPaperAPI{},
		hangar: &fakeFinder{err: plugins.ErrNoRelease},
		newRCON: func(_ string, _ int, _ string) (rcon.Client, error) {
			if client == nil {
				return nil, errors.New("no RCON in this test")
			}

			return client, nil
		},
		newScheduler: func() mccron.Scheduler {
			return testutil.NewMockCronScheduler()
		},
	}
}

func writeJAR(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "SilkSpawners.jar")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func execute(t *testing.T, d deps, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr, d)

	return code, stdout.String(), stderr.String()
}

func TestRun_Dispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{name: "no arguments", args: nil, wantCode: exitUsage, wantErr: "Usage: nmscompat"},
		{name: "unknown command", args: []string{"frobnicate"}, wantCode: exitUsage, wantErr: `unknown command "frobnicate"`},
		{name: "help", args: []string{"help"}, wantCode: exitOK, wantOut: "Commands:"},
		{name: "version", args: []string{"version"}, wantCode: exitOK, wantOut: "nmscompat dev"},
		{name: "command help", args: []string{"resolve", "-h"}, wantCode: exitOK, wantErr: "-api-version"},
		{name: "bad flag", args: []string{"resolve", "--no-such-flag"}, wantCode: exitUsage},
		{name: "stray argument", args: []string{"matrix", "extra"}, wantCode: exitUsage, wantErr: "unexpected arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, stdout, stderr := execute(t, testDeps(nil), tt.args...)

			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stdout, tt.wantOut)
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}

func TestResolve_StaticHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{
			name:     "package derived from legacy API version",
			args:     []string{"--api-version", "1.16.5-R0.1-SNAPSHOT"},
			wantCode: exitOK,
			wantOut:  "v1_16_R3\tloaded\n",
		},
		{
			name:     "modern server",
			args:     []string{"--api-version", "1.21.4-R0.1-SNAPSHOT"},
			wantCode: exitOK,
			wantOut:  "v1_20_R4\tloaded\n",
		},
		{
			name: "explicit package",
			args: []string{
				"--api-version", "1.8.8-R0.1-SNAPSHOT",
				"--implementation-package", "org.bukkit.craftbukkit.v1_8_R3",
			},
			wantCode: exitOK,
			wantOut:  "v1_8_R3\tloaded\n",
		},
		{
			name: "unsupported revision",
			args: []string{
				"--api-version", "1.7.10-R0.1-SNAPSHOT",
				"--implementation-package", "org.bukkit.craftbukkit.v1_7_R4",
			},
			wantCode: exitFailure,
			wantOut:  "v1_7_R4\tdisabled\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, stdout, _ := execute(t, testDeps(nil), append([]string{"resolve"}, tt.args...)...)

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantOut, stdout)
		})
	}
}

func TestResolve_UnsupportedListsBundledRevisions(t *testing.T) {
	t.Parallel()

	jar := writeJAR(t, testutil.BuildAdapterJAR(artifact.AdapterNamespace, "v1_16_R3", "v1_17_R1"))

	code, stdout, stderr := execute(t, testDeps(nil), "resolve",
		"--api-version", "1.7.10-R0.1-SNAPSHOT",
		"--implementation-package", "org.bukkit.craftbukkit.v1_7_R4",
		"--jar", jar,
		"--compatibility-url", "https://example.com/versions")

	assert.Equal(t, exitFailure, code)
	assert.Equal(t, "v1_7_R4\tdisabled\n", stdout)
	assert.Contains(t, stderr, "The detected Server Version (v1_7_R4) is not supported")
	assert.Contains(t, stderr, "Currently supported Versions are: [v1_16_R3 v1_17_R1]")
	assert.Contains(t, stderr, "You can check for updates at https://example.com/versions")
	assert.Contains(t, stderr, "Disabling plugin due to version incompatibility")
}

func TestResolve_MissingHost(t *testing.T) {
	t.Parallel()

	code, stdout, stderr := execute(t, testDeps(nil), "resolve")

	assert.Equal(t, exitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "either --api-version or --rcon-host is required")
}

func TestResolve_UnknownVersionNeedsPackage(t *testing.T) {
	t.Parallel()

	code, _, stderr := execute(t, testDeps(nil), "resolve", "--api-version", "1.7.10-R0.1-SNAPSHOT")

	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "set --implementation-package")
}

func TestResolve_BrokenArtifactStillResolves(t *testing.T) {
	t.Parallel()

	code, stdout, stderr := execute(t, testDeps(nil), "resolve",
		"--api-version", "1.16.5-R0.1-SNAPSHOT",
		"--jar-url", "http://insecure.example.com/a.jar")

	assert.Equal(t, exitOK, code)
	assert.Equal(t, "v1_16_R3\tloaded\n", stdout)
	assert.Contains(t, stderr, "Plugin artifact unavailable")
}

func TestResolve_RCONHost(t *testing.T) {
	t.Parallel()

	client := rcon.NewMockClient()
	client.Info = rcon.ServerInfo{
		Software:         "Paper",
		MinecraftVersion: "1.17.1",
		APIVersion:       "1.17.1-R0.1-SNAPSHOT",
	}

	code, stdout, stderr := execute(t, testDeps(client), "resolve",
		"--rcon-host", "mc.example.com", "--rcon-password", "secret")

	assert.Equal(t, exitOK, code)
	assert.Equal(t, "v1_17_R1\tloaded\n", stdout)
	assert.Contains(t, stderr, "Discovered server")
	assert.True(t, client.ConnectCalled)
	assert.True(t, client.CloseCalled)
	assert.Equal(t, []string{"version"}, client.GetCommands())
}

func TestResolve_RCONDisablesUnsupportedPlugin(t *testing.T) {
	t.Parallel()

	client := rcon.NewMockClient()
	client.Info = rcon.ServerInfo{
		Software:         "Spigot",
		MinecraftVersion: "1.7.10",
		APIVersion:       "1.7.10-R0.1-SNAPSHOT",
	}

	code, _, _ := execute(t, testDeps(client), "resolve",
		"--rcon-host", "mc.example.com", "--rcon-password", "secret",
		"--plugin-name", "SilkSpawners",
		"--disable-command", "plugman disable {plugin}")

	assert.Equal(t, exitFailure, code)
	assert.Equal(t, []string{"version", "plugman disable SilkSpawners"}, client.GetCommands())
	assert.True(t, client.CloseCalled)
}

func TestResolve_RCONConnectFailure(t *testing.T) {
	t.Parallel()

	client := rcon.NewMockClient()
	client.ConnectError = errors.New("connection refused")

	code, stdout, stderr := execute(t, testDeps(client), "resolve",
		"--rcon-host", "mc.example.com", "--rcon-password", "secret")

	assert.Equal(t, exitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "connection refused")
}

func TestResolve_WritesMetricsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nmscompat.prom")

	code, _, _ := execute(t, testDeps(nil), "resolve",
		"--api-version", "1.16.5-R0.1-SNAPSHOT",
		"--metrics-file", path)
	require.Equal(t, exitOK, code)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `nmscompat_adapter_loads_total{outcome="found",tag="v1_16_R3"} 1`)
}

func TestSupported_JAR(t *testing.T) {
	t.Parallel()

	jar := writeJAR(t, testutil.BuildTestJAREntries(
		testutil.JAREntry{Name: "plugin.yml", Content: "name: SilkSpawners\nversion: 7.5.0\n"},
		testutil.JAREntry{Name: artifact.AdapterNamespace + "v1_16_R3/NMSHandler.class", Content: "x"},
		testutil.JAREntry{Name: artifact.AdapterNamespace + "v1_17_R1/NMSHandler.class", Content: "x"},
	))

	code, stdout, _ := execute(t, testDeps(nil), "supported", "--jar", jar)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "v1_16_R3\nv1_17_R1\n", stdout)

	code, stdout, _ = execute(t, testDeps(nil), "supported", "--jar", jar, "--metadata")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "# SilkSpawners 7.5.0\nv1_16_R3\nv1_17_R1\n", stdout)
}

func TestSupported_Errors(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.jar")

	tests := []struct {
		name     string
		finder   *fakeFinder
		args     []string
		wantCode int
		wantErr  string
	}{
		{
			name:     "no artifact",
			args:     nil,
			wantCode: exitUsage,
			wantErr:  "one of --jar, --jar-url or --hangar-project is required",
		},
		{
			name:     "missing file",
			args:     []string{"--jar", missing},
			wantCode: exitFailure,
			wantErr:  "Failed to open plugin artifact",
		},
		{
			name:     "insecure URL",
			args:     []string{"--jar-url", "http://example.com/a.jar"},
			wantCode: exitFailure,
			wantErr:  "URL must use HTTPS",
		},
		{
			name:     "hangar without release",
			finder:   &fakeFinder{err: plugins.ErrNoRelease},
			args:     []string{"--hangar-project", "SilkSpawners"},
			wantCode: exitFailure,
			wantErr:  "no downloadable release",
		},
		{
			name: "hangar release on plain HTTP",
			finder: &fakeFinder{release: plugins.PluginVersion{
				Version:     "7.5.0",
				DownloadURL: "http://example.com/SilkSpawners.jar",
			}},
			args:     []string{"--hangar-project", "SilkSpawners"},
			wantCode: exitFailure,
			wantErr:  "unusable download",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := testDeps(nil)
			if tt.finder != nil {
				d.hangar = tt.finder
			}

			code, stdout, stderr := execute(t, d, append([]string{"supported"}, tt.args...)...)

			assert.Equal(t, tt.wantCode, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}

func TestMatrix(t *testing.T) {
	t.Parallel()

	jar := writeJAR(t, testutil.BuildAdapterJAR(artifact.AdapterNamespace, "v1_16_R3"))

	d := testDeps(nil)
	d.paper = &testutil.MockPaperAPI{Versions: []string{"1.7.10", "1.16.5", "1.17.1", "1.21.4"}}

	code, stdout, _ := execute(t, d, "matrix", "--jar", jar)
	require.Equal(t, exitOK, code)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 5)

	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, strings.Fields(line))
	}

	assert.Equal(t, []string{"MINECRAFT", "TAG", "BUILTIN", "ARTIFACT"}, rows[0])
	assert.Equal(t, []string{"1.7.10", "-", "no", "no"}, rows[1])
	assert.Equal(t, []string{"1.16.5", "v1_16_R3", "yes", "yes"}, rows[2])
	assert.Equal(t, []string{"1.17.1", "v1_17_R1", "yes", "no"}, rows[3])
	assert.Equal(t, []string{"1.21.4", "v1_20_R4", "yes", "no"}, rows[4])
}

func TestMatrix_WithoutArtifact(t *testing.T) {
	t.Parallel()

	paperAPI := &testutil.MockPaperAPI{Versions: []string{"1.20.6"}}
	d := testDeps(nil)
	d.paper = paperAPI

	code, stdout, _ := execute(t, d, "matrix")
	require.Equal(t, exitOK, code)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"MINECRAFT", "TAG", "BUILTIN"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1.20.6", "v1_20_R4", "yes"}, strings.Fields(lines[1]))
	assert.Equal(t, 1, paperAPI.GetVersionsCalls)
}

func TestMatrix_PaperUnavailable(t *testing.T) {
	t.Parallel()

	d := testDeps(nil)
	d.paper = &testutil.MockPaperAPI{VersionsErr: errors.New("api down")}

	code, stdout, stderr := execute(t, d, "matrix")

	assert.Equal(t, exitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "api down")
}

func TestWatch_ChecksOnScheduleAndRefreshesMetrics(t *testing.T) {
	t.Parallel()

	scheduler := testutil.NewMockCronScheduler()
	d := testDeps(nil)
	d.newScheduler = func() mccron.Scheduler { return scheduler }

	path := filepath.Join(t.TempDir(), "nmscompat.prom")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"watch",
		"--api-version", "1.16.5-R0.1-SNAPSHOT",
		"--schedule", "@every 10m",
		"--metrics-file", path,
	}, &stdout, &stderr, d)

	require.Equal(t, exitOK, code)
	assert.Equal(t, "v1_16_R3\tloaded\n", stdout.String())

	require.True(t, scheduler.Trigger("@every 10m"))
	assert.Equal(t, "v1_16_R3\tloaded\nv1_16_R3\tloaded\n", stdout.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `nmscompat_adapter_loads_total{outcome="found",tag="v1_16_R3"} 2`)
}

func TestWatch_DisablesUnsupportedPluginOnce(t *testing.T) {
	t.Parallel()

	client := rcon.NewMockClient()
	client.Info = rcon.ServerInfo{
		Software:         "Spigot",
		MinecraftVersion: "1.7.10",
		APIVersion:       "1.7.10-R0.1-SNAPSHOT",
	}

	scheduler := testutil.NewMockCronScheduler()
	d := testDeps(client)
	d.newScheduler = func() mccron.Scheduler { return scheduler }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stdout bytes.Buffer

	done := make(chan int, 1)

	go func() {
		done <- run(ctx, []string{"watch",
			"--rcon-host", "mc.example.com", "--rcon-password", "secret",
			"--plugin-name", "SilkSpawners",
			"--disable-command", "plugman disable {plugin}",
			"--schedule", "@every 5m",
		}, &stdout, io.Discard, d)
	}()

	require.Eventually(t, scheduler.IsStarted, 5*time.Second, 10*time.Millisecond)

	require.True(t, scheduler.Trigger("@every 5m"))
	require.True(t, scheduler.Trigger("@every 5m"))

	cancel()
	require.Equal(t, exitOK, <-done)

	assert.Equal(t, []string{
		"version", "plugman disable SilkSpawners",
		"version",
		"version",
	}, client.GetCommands())
	assert.Equal(t, strings.Repeat("craftbukkit\tdisabled\n", 3), stdout.String())
}

func TestWatch_InvalidSchedule(t *testing.T) {
	t.Parallel()

	code, stdout, stderr := execute(t, testDeps(nil), "watch",
		"--api-version", "1.16.5-R0.1-SNAPSHOT",
		"--schedule", "whenever")

	assert.Equal(t, exitUsage, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "invalid schedule")
}

func TestNewLogger_WarnsOnUnknownValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := newLogger("verbose", "yaml", &buf)
	logger.Info("hello")

	out := buf.String()
	assert.Contains(t, out, `unknown log level "verbose"`)
	assert.Contains(t, out, `unknown log format "yaml"`)
	assert.Contains(t, out, `"msg":"hello"`)
}

func TestNewLogger_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := newLogger("warn", "text", &buf)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

//nolint:paralleltest // t.Setenv cannot be combined with t.Parallel
func TestLoadConfig_EnvironmentDefaults(t *testing.T) {
	t.Setenv("NMSCOMPAT_API_VERSION", "1.16.5-R0.1-SNAPSHOT")
	t.Setenv("NMSCOMPAT_RCON_PORT", "25580")
	t.Setenv("NMSCOMPAT_TIMEOUT", "5s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "1.16.5-R0.1-SNAPSHOT", cfg.APIVersion)
	assert.Equal(t, 25580, cfg.RCONPort)
	assert.Equal(t, "5s", cfg.Timeout.String())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "SilkSpawners", cfg.PluginName)

	code, stdout, _ := execute(t, testDeps(nil), "resolve")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "v1_16_R3\tloaded\n", stdout)

	code, stdout, _ = execute(t, testDeps(nil), "resolve", "--api-version", "1.17.1-R0.1-SNAPSHOT")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "v1_17_R1\tloaded\n", stdout, "flags override the environment")
}

//nolint:paralleltest // t.Setenv cannot be combined with t.Parallel
func TestLoadConfig_InvalidEnvironment(t *testing.T) {
	t.Setenv("NMSCOMPAT_RCON_PORT", "not-a-number")

	_, err := LoadConfig()
	require.Error(t, err)

	code, _, stderr := execute(t, testDeps(nil), "resolve")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "parse env")
}
