package presence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tanki-rpc/tanki-rich-presence/pkg/discord"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// Conn is a logged-in connection to the presence client.
type Conn interface {
	SetActivity(ctx context.Context, activity Activity) error
	ClearActivity(ctx context.Context) error
	Close() error
}

// Connector opens and logs into a new Conn.
type Connector interface {
	Connect(ctx context.Context) (Conn, error)
}

// DiscordConnector dials the local Discord client over IPC.
type DiscordConnector struct {
	options discord.Options
	wait    time.Duration
}

// NewDiscordConnector creates a connector. A positive wait keeps retrying, with
// exponential backoff, while no Discord socket exists yet; any other failure is
// returned at once.
func NewDiscordConnector(options discord.Options, wait time.Duration) *DiscordConnector {
	return &DiscordConnector{options: options, wait: wait}
}

// Connect dials and performs the handshake.
func (d *DiscordConnector) Connect(ctx context.Context) (Conn, error) {
	if d.wait <= 0 {
		client, err := discord.Dial(ctx, d.options)
		if err != nil {
			return nil, err
		}
		return &discordConn{client: client}, nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = d.wait

	client, err := backoff.RetryNotifyWithData[*discord.Client](
		func() (*discord.Client, error) {
			client, err := discord.Dial(ctx, d.options)
			if errors.Is(err, discord.ErrNoSocket) {
				return nil, err
			}
			if err != nil {
				return nil, backoff.Permanent(err)
			}
			return client, nil
		},
		backoff.WithContext(b, ctx),
		func(err error, next time.Duration) {
			logrus.Infof("waiting for discord to start, retrying in %v", next.Round(time.Millisecond))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("discord not available after %v: %w", d.wait, err)
	}
	return &discordConn{client: client}, nil
}

type discordConn struct {
	client *discord.Client
}

func (c *discordConn) SetActivity(ctx context.Context, activity Activity) error {
	return c.client.SetActivity(ctx, toDiscordActivity(activity))
}

func (c *discordConn) ClearActivity(ctx context.Context) error {
	return c.client.ClearActivity(ctx)
}

func (c *discordConn) Close() error {
	return c.client.Close()
}

func toDiscordActivity(a Activity) *discord.Activity {
	out := &discord.Activity{
		Details: a.Details,
		State:   a.State,
	}
	if !a.Start.IsZero() {
		out.Timestamps = &discord.Timestamps{Start: a.Start.UnixMilli()}
	}
	if a.LargeImage != "" || a.LargeText != "" || a.SmallImage != "" || a.SmallText != "" {
		out.Assets = &discord.Assets{
			LargeImage: a.LargeImage,
			LargeText:  a.LargeText,
			SmallImage: a.SmallImage,
			SmallText:  a.SmallText,
		}
	}
	for _, b := range a.Buttons {
		out.Buttons = append(out.Buttons, discord.Button{Label: b.Label, URL: b.URL})
	}
	return out
}
