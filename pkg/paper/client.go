// Package paper provides client for PaperMC API.
package paper

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lexfrei/goPaperMC/pkg/api"
)

// VersionLister lists the Minecraft versions Paper has published.
type VersionLister interface {
	GetPaperVersions(ctx context.Context) ([]string, error)
}

// Client provides access to PaperMC API using goPaperMC library.
type Client struct {
	paperClient *api.Client
}

// NewClient creates a new Paper API client.
func NewClient() *Client {
	return &Client{
		paperClient: api.NewClient().WithTimeout(60 * time.Second),
	}
}

// GetPaperVersions retrieves all available Paper versions.
func (c *Client) GetPaperVersions(ctx context.Context) ([]string, error) {
	project, err := c.paperClient.GetProject(ctx, "paper")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get Paper project")
	}

	return project.Versions, nil
}
