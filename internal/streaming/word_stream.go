// Package streaming turns a complete upstream reply into a paced
// word-by-word pseudo-stream.
package streaming

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultWordDelay is the pause between emitted words.
const DefaultWordDelay = 50 * time.Millisecond

// WordCount counts whitespace-separated words, the unit the gateway
// reports as tokens.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// StreamWords splits text into whitespace-separated words and hands
// them to send one at a time, paced at one word per delay. Every word
// except the last carries a trailing space so the client can
// concatenate deltas verbatim. A send error or context cancellation
// stops the stream.
func StreamWords(ctx context.Context, text string, delay time.Duration, send func(delta string, last bool) error) error {
	if delay <= 0 {
		delay = DefaultWordDelay
	}
	words := strings.Fields(text)
	pacer := rate.NewLimiter(rate.Every(delay), 1)
	for i, word := range words {
		if err := pacer.Wait(ctx); err != nil {
			return err
		}
		delta := word
		last := i == len(words)-1
		if !last {
			delta += " "
		}
		if err := send(delta, last); err != nil {
			return err
		}
	}
	return nil
}
