package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// StreamName is the JetStream stream holding background jobs.
const StreamName = "JOBS"

// NatsPublisher publishes jobs to a JetStream work queue. Delivery to the
// worker is at-least-once; the worker side lives outside this service.
type NatsPublisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// NewNatsPublisher connects to NATS and ensures the jobs stream exists.
func NewNatsPublisher(ctx context.Context, url string) (*NatsPublisher, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect error: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init error: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{"jobs.>"},
		Retention: jetstream.WorkQueuePolicy,
		MaxAge:    24 * time.Hour,
		Storage:   jetstream.FileStorage,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("stream create error: %w", err)
	}

	return &NatsPublisher{nc: nc, js: js}, nil
}

func (p *NatsPublisher) publish(ctx context.Context, subject string, job any) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("job marshal error: %w", err)
	}
	if _, err := p.js.Publish(ctx, subject, payload); err != nil {
		return fmt.Errorf("job publish error: %w", err)
	}
	return nil
}

func (p *NatsPublisher) EnqueueThumbnail(ctx context.Context, fileID, userID string) error {
	return p.publish(ctx, SubjectThumbnail, ThumbnailJob{FileID: fileID, UserID: userID})
}

func (p *NatsPublisher) EnqueueWelcome(ctx context.Context, userID string) error {
	return p.publish(ctx, SubjectWelcome, WelcomeJob{UserID: userID})
}

func (p *NatsPublisher) Close() {
	p.nc.Close()
}
