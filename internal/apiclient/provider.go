package apiclient

import (
	"context"

	"github.com/equiptrack/linebot-go/internal/device"
)

// Provider signs each user in to the platform and returns a
// token-bound repository for that user.
type Provider struct {
	client *Client
}

// NewProvider wraps the client as a device.Provider.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

// Session authenticates userID against the platform.
func (p *Provider) Session(ctx context.Context, userID string) (device.Repository, error) {
	token, err := p.client.SignIn(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewSession(p.client, token), nil
}
