// Package queue publishes background jobs consumed by external workers
// (thumbnail generation, welcome mail). Publishing is best-effort: the
// primary operation never fails because the queue is unavailable.
package queue

import "context"

// Subjects the external workers consume.
const (
	SubjectThumbnail = "jobs.thumbnail"
	SubjectWelcome   = "jobs.welcome"
)

// ThumbnailJob asks the worker to generate size variants for an image.
type ThumbnailJob struct {
	FileID string `json:"fileId"`
	UserID string `json:"userId"`
}

// WelcomeJob asks the worker to send a welcome mail to a new user.
type WelcomeJob struct {
	UserID string `json:"userId"`
}

// Publisher enqueues jobs for the external worker.
type Publisher interface {
	EnqueueThumbnail(ctx context.Context, fileID, userID string) error
	EnqueueWelcome(ctx context.Context, userID string) error
	Close()
}

// NopPublisher drops all jobs. Used when no queue is configured and as a
// fallback when the broker is unreachable at startup.
type NopPublisher struct{}

func (NopPublisher) EnqueueThumbnail(context.Context, string, string) error { return nil }
func (NopPublisher) EnqueueWelcome(context.Context, string) error           { return nil }
func (NopPublisher) Close()                                                 {}
