package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/calvinmclean/babyapi"

	"github.com/calvinmclean/bedlift"
)

// Client posts events to a Server
type Client struct {
	addr   string
	client *babyapi.Client[*Event]
}

func NewClient(addr string) *Client {
	return &Client{
		addr:   strings.TrimSuffix(addr, "/"),
		client: babyapi.NewClient[*Event](addr, "/events"),
	}
}

func (c *Client) post(ctx context.Context, e *Event) (*Event, error) {
	resp, err := c.client.Post(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("error posting %s event: %w", e.Action, err)
	}
	return resp.Data, nil
}

func (c *Client) Press(ctx context.Context, b bedlift.Button) (*Event, error) {
	return c.post(ctx, &Event{Action: ActionPress, Button: b.String()})
}

func (c *Client) Release(ctx context.Context, b bedlift.Button) (*Event, error) {
	return c.post(ctx, &Event{Action: ActionRelease, Button: b.String()})
}

func (c *Client) CycleMode(ctx context.Context) (*Event, error) {
	return c.post(ctx, &Event{Action: ActionCycle})
}

func (c *Client) Touch(ctx context.Context) (*Event, error) {
	return c.post(ctx, &Event{Action: ActionTouch})
}

func (c *Client) ClearMessage(ctx context.Context) (*Event, error) {
	return c.post(ctx, &Event{Action: ActionClear})
}

// Event reads back an event that was already applied
func (c *Client) Event(ctx context.Context, id string) (*Event, error) {
	resp, err := c.client.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting event: %w", err)
	}
	return resp.Data, nil
}

func (c *Client) Status(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.addr+"/status", http.NoBody)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d, response: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return strings.TrimSpace(string(body)), nil
}
