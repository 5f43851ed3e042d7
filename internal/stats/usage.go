// Package stats keeps in-memory usage counters for the gateway.
// Counters reset on restart; nothing is persisted.
package stats

import (
	"sync"
	"time"
)

// ModelUsage aggregates completed requests for one model.
type ModelUsage struct {
	Requests        int64 `json:"requests"`
	Failures        int64 `json:"failures"`
	PromptWords     int64 `json:"prompt_words"`
	CompletionWords int64 `json:"completion_words"`
}

// Summary is the wire shape of the usage endpoint.
type Summary struct {
	UptimeSeconds int64                 `json:"uptime_seconds"`
	TotalRequests int64                 `json:"total_requests"`
	TotalFailures int64                 `json:"total_failures"`
	Models        map[string]ModelUsage `json:"models"`
}

// Recorder accumulates usage per model.
type Recorder struct {
	mu      sync.Mutex
	started time.Time
	byModel map[string]*ModelUsage
}

func NewRecorder() *Recorder {
	return &Recorder{
		started: time.Now(),
		byModel: make(map[string]*ModelUsage),
	}
}

func (r *Recorder) usage(model string) *ModelUsage {
	u, ok := r.byModel[model]
	if !ok {
		u = &ModelUsage{}
		r.byModel[model] = u
	}
	return u
}

// RecordSuccess adds one completed request with its word counts.
func (r *Recorder) RecordSuccess(model string, promptWords, completionWords int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.usage(model)
	u.Requests++
	u.PromptWords += int64(promptWords)
	u.CompletionWords += int64(completionWords)
}

// RecordFailure adds one failed request.
func (r *Recorder) RecordFailure(model string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.usage(model)
	u.Requests++
	u.Failures++
}

// Snapshot copies the current counters.
func (r *Recorder) Snapshot() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := Summary{
		UptimeSeconds: int64(time.Since(r.started).Seconds()),
		Models:        make(map[string]ModelUsage, len(r.byModel)),
	}
	for model, u := range r.byModel {
		out.Models[model] = *u
		out.TotalRequests += u.Requests
		out.TotalFailures += u.Failures
	}
	return out
}
