// Package rcon provides an RCON client for querying live Minecraft servers.
package rcon

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gorcon/rcon"
)

// Client is an interface for RCON client operations.
type Client interface {
	Connect(ctx context.Context) error
	ServerVersion(ctx context.Context) (ServerInfo, error)
	SendCommand(ctx context.Context, command string) (string, error)
	Close() error
}

// ServerInfo is the parsed answer to the "version" command.
type ServerInfo struct {
	// Software is the server software, e.g. "Paper" or "CraftBukkit".
	Software string
	// MinecraftVersion is the game version, e.g. "1.20.4". Newer Paper
	// builds omit it; it is then taken from APIVersion.
	MinecraftVersion string
	// APIVersion is the Bukkit API version, e.g. "1.20.4-R0.1-SNAPSHOT".
	APIVersion string
}

var (
	colorCodes     = regexp.MustCompile(`§.`)
	softwarePart   = regexp.MustCompile(`running (\S+) version`)
	minecraftPart  = regexp.MustCompile(`\(MC: ([0-9][0-9.]*)\)`)
	apiVersionPart = regexp.MustCompile(`Implementing API version ([^\s)]+)`)
)

// rconConn is an internal interface for dependency injection in tests.
// It abstracts the gorcon/rcon.Conn type.
type rconConn interface {
	Execute(cmd string) (string, error)
	Close() error
}

// RCONClient wraps gorcon/rcon for Minecraft server communication.
type RCONClient struct {
	conn     rconConn
	host     string
	port     int
	password string
}

// NewRCONClient creates a new RCON client.
// The client is not connected until Connect() is called.
func NewRCONClient(host string, port int, password string) (*RCONClient, error) {
	if host == "" {
		return nil, errors.New("host cannot be empty")
	}
	if port <= 0 || port > 65535 {
		return nil, errors.Newf("invalid port: %d", port)
	}
	if password == "" {
		return nil, errors.New("password cannot be empty")
	}

	return &RCONClient{
		host:     host,
		port:     port,
		password: password,
	}, nil
}

// Connect establishes connection to the RCON server.
func (c *RCONClient) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	address := fmt.Sprintf("%s:%d", c.host, c.port)

	conn, err := rcon.Dial(address, c.password)
	if err != nil {
		return errors.Wrapf(err, "failed to connect to RCON at %s", address)
	}

	c.conn = conn
	return nil
}

// SendCommand sends a command to the server and returns the response.
func (c *RCONClient) SendCommand(ctx context.Context, command string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if !c.IsConnected() {
		return "", errors.New("not connected to RCON server")
	}

	response, err := c.conn.Execute(command)
	if err != nil {
		return "", errors.Wrapf(err, "failed to execute command: %s", command)
	}

	return response, nil
}

// ServerVersion runs the "version" command and parses its answer.
func (c *RCONClient) ServerVersion(ctx context.Context) (ServerInfo, error) {
	response, err := c.SendCommand(ctx, "version")
	if err != nil {
		return ServerInfo{}, err
	}

	return ParseVersionResponse(response)
}

// ParseVersionResponse parses the output of the "version" command, e.g.
// "This server is running Paper version 1.20.4-496-3c2ee49 (MC: 1.20.4)
// (Implementing API version 1.20.4-R0.1-SNAPSHOT)".
func ParseVersionResponse(response string) (ServerInfo, error) {
	plain := colorCodes.ReplaceAllString(response, "")

	api := apiVersionPart.FindStringSubmatch(plain)
	if api == nil {
		return ServerInfo{}, errors.Newf("no API version in response %q", strings.TrimSpace(plain))
	}

	info := ServerInfo{APIVersion: api[1]}

	if m := softwarePart.FindStringSubmatch(plain); m != nil {
		info.Software = m[1]
	}

	if m := minecraftPart.FindStringSubmatch(plain); m != nil {
		info.MinecraftVersion = m[1]
	} else {
		info.MinecraftVersion, _, _ = strings.Cut(info.APIVersion, "-")
	}

	return info, nil
}

// Close closes the RCON connection.
func (c *RCONClient) Close() error {
	if !c.IsConnected() {
		return nil
	}

	err := c.conn.Close()
	c.conn = nil
	if err != nil {
		return errors.Wrap(err, "failed to close RCON connection")
	}

	return nil
}

// IsConnected returns true if the client is connected.
func (c *RCONClient) IsConnected() bool {
	return c.conn != nil
}
