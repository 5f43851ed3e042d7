// Package models exposes the OpenAI-visible model catalog and its
// mapping onto the upstream web models.
package models

import (
	"time"

	"gweb2api-go/internal/upstream/geminiweb"
)

// Info is one entry of the /v1/models listing, shaped like the OpenAI
// model object.
type Info struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// List returns the catalog in upstream order.
func List() []Info {
	now := time.Now().Unix()
	all := geminiweb.AllModels()
	out := make([]Info, 0, len(all))
	for _, m := range all {
		out = append(out, Info{
			ID:      m.Name,
			Object:  "model",
			Created: now,
			OwnedBy: "google",
		})
	}
	return out
}

// IsKnown reports whether the id names a servable model.
func IsKnown(id string) bool {
	_, ok := geminiweb.ModelFromName(id)
	return ok
}
