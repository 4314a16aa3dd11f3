package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

// Client publishes board snapshots to a Redis channel. Nothing is stored.
type Client struct {
	client  *redis.Client
	channel string
}

func New(ctx context.Context, addr, channel string) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewWithClient(rdb, channel), nil
}

func NewWithClient(client *redis.Client, channel string) *Client {
	return &Client{
		client:  client,
		channel: channel,
	}
}

// NotifyBoard - publishes the snapshot as JSON on the channel.
func (that *Client) NotifyBoard(ctx context.Context, state entity.GameState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}

	if err = that.client.Publish(ctx, that.channel, stateJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish board to %s: %w", that.channel, err)
	}

	return nil
}

// Subscribe - decoded snapshots from the channel until ctx is canceled.
func (that *Client) Subscribe(ctx context.Context) (<-chan entity.GameState, error) {
	pubsub := that.client.Subscribe(ctx, that.channel)

	// wait for the subscription confirmation so no publish after this call is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", that.channel, err)
	}

	states := make(chan entity.GameState)

	go func() {
		defer close(states)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case message, ok := <-messages:
				if !ok {
					return
				}

				var state entity.GameState
				if err := json.Unmarshal([]byte(message.Payload), &state); err != nil {
					continue
				}

				select {
				case states <- state:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return states, nil
}

func (that *Client) Close() error {
	return that.client.Close()
}
