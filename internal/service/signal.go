package service

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/nagarik-sahayak/sahayak/internal/events"
)

const DefaultChannel = "sahayak:issues"

// SignalService fans issue events out over redis pub/sub.
type SignalService struct {
	rdb     *redis.Client
	channel string
}

func NewSignalService(redisClient *redis.Client, channel string) *SignalService {
	if channel == "" {
		channel = DefaultChannel
	}
	return &SignalService{
		rdb:     redisClient,
		channel: channel,
	}
}

func (s *SignalService) Publish(ctx context.Context, event *events.Event) error {

	jsonstr, err := event.ToJSON()
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, s.channel, jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}

// Subscribe delivers events until ctx is done. Malformed messages are skipped.
func (s *SignalService) Subscribe(ctx context.Context) (<-chan *events.Event, error) {
	pubsub := s.rdb.Subscribe(ctx, s.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	out := make(chan *events.Event)
	go func() {
		defer close(out)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				event, err := events.FromJSON([]byte(msg.Payload))
				if err != nil {
					slog.WarnContext(ctx, "dropping malformed event", slog.String("module", "signal"), slog.Any("error", err))
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
