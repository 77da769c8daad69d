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

package host

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/lexfrei/nmscompat/pkg/metrics"
	"github.com/lexfrei/nmscompat/pkg/rcon"
	"github.com/lexfrei/nmscompat/pkg/version"
)

const querySource = "rcon"

// RCONHost is a live server reached over RCON.
// The server does not report its implementation package, so it is derived
// from the Minecraft version through the CraftBukkit revision table.
type RCONHost struct {
	client rcon.Client
	info   rcon.ServerInfo
	pkg    string

	// DisableCommand is sent on DisablePlugin with "{plugin}" replaced by
	// Plugin. Empty means disable requests are only logged.
	DisableCommand string
	Plugin         string
	Logger         *slog.Logger
}

// DiscoverRCON connects with client and reads the server version.
// The connection stays open for DisablePlugin; call Close when done.
func DiscoverRCON(ctx context.Context, client rcon.Client, recorder metrics.Recorder) (*RCONHost, error) {
	if recorder == nil {
		recorder = &metrics.NoopRecorder{}
	}

	start := time.Now()

	info, err := queryVersion(ctx, client)
	recorder.RecordHostQuery(querySource, err, time.Since(start))

	if err != nil {
		return nil, err
	}

	// Unknown releases get the bare package, which resolves to no adapter.
	pkg, _ := version.PackageFor(info.MinecraftVersion)

	return &RCONHost{
		client: client,
		info:   info,
		pkg:    pkg,
		Logger: slog.Default(),
	}, nil
}

func queryVersion(ctx context.Context, client rcon.Client) (rcon.ServerInfo, error) {
	if err := client.Connect(ctx); err != nil {
		return rcon.ServerInfo{}, errors.Wrap(err, "failed to connect")
	}

	info, err := client.ServerVersion(ctx)
	if err != nil {
		_ = client.Close()

		return rcon.ServerInfo{}, errors.Wrap(err, "failed to query server version")
	}

	return info, nil
}

// Info returns the parsed server version.
func (h *RCONHost) Info() rcon.ServerInfo { return h.info }

// APIVersion implements Host.
func (h *RCONHost) APIVersion() string { return h.info.APIVersion }

// ImplementationPackage implements Host.
func (h *RCONHost) ImplementationPackage() string { return h.pkg }

// DisablePlugin implements Host.
func (h *RCONHost) DisablePlugin(ctx context.Context, reason string) error {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if h.DisableCommand == "" || h.Plugin == "" {
		logger.WarnContext(ctx, "No disable command configured, leaving plugin enabled",
			"plugin", h.Plugin, "reason", reason)

		return nil
	}

	cmd := strings.ReplaceAll(h.DisableCommand, "{plugin}", h.Plugin)

	if _, err := h.client.SendCommand(ctx, cmd); err != nil {
		return errors.Wrapf(err, "failed to disable plugin %s", h.Plugin)
	}

	logger.InfoContext(ctx, "Plugin disabled on server", "plugin", h.Plugin, "command", cmd, "reason", reason)

	return nil
}

// Close closes the RCON connection.
func (h *RCONHost) Close() error {
	return h.client.Close()
}
