package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTimelineWarmup pre-builds the default timeline window snapshot.
	TaskTimelineWarmup = "timeline:warmup"
	// TaskReleaseArchive completes releases whose date has passed.
	TaskReleaseArchive = "release:archive"
)

// TimelineWarmupPayload describes the window to pre-build, expressed
// relative to today.
type TimelineWarmupPayload struct {
	PastDays   int `json:"past_days"`
	FutureDays int `json:"future_days"`
}

// NewTimelineWarmupTask constructs a timeline warmup task.
func NewTimelineWarmupTask(pastDays, futureDays int) (*asynq.Task, error) {
	data, err := json.Marshal(TimelineWarmupPayload{PastDays: pastDays, FutureDays: futureDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTimelineWarmup, data), nil
}

// ReleaseArchivePayload carries no options yet; the handler archives
// everything dated before today.
type ReleaseArchivePayload struct{}

// NewReleaseArchiveTask constructs a release archive task.
func NewReleaseArchiveTask() (*asynq.Task, error) {
	data, err := json.Marshal(ReleaseArchivePayload{})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReleaseArchive, data), nil
}
