package redisx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProgramsPubSub announces program-view refreshes so other consumers (e.g.
// additional engine instances) can drop their cached derived views.
type ProgramsPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewProgramsPubSub(rdb *redis.Client) *ProgramsPubSub {
	return &ProgramsPubSub{
		rdb:     rdb,
		channel: ChannelProgramsChanged(),
	}
}

type programsChangedMsg struct {
	Type        string `json:"type"`
	BookingType string `json:"booking_type"`
	TsUnix      int64  `json:"ts_unix"`
}

func (p *ProgramsPubSub) PublishProgramsChanged(ctx context.Context, bookingType string) error {
	msg := programsChangedMsg{
		Type:        "programs_changed",
		BookingType: bookingType,
		TsUnix:      time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *ProgramsPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, bookingType string)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev programsChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil {
				handler(ctx, ev.BookingType)
			}
		}
	}
}
