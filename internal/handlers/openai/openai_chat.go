package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"gweb2api-go/internal/handlers/common"
	"gweb2api-go/internal/models"
	"gweb2api-go/internal/monitoring/tracing"
	"gweb2api-go/internal/streaming"
)

// ChatCompletions serves POST /v1/chat/completions.
func (h *Handler) ChatCompletions(c *gin.Context) {
	var req ChatCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.AbortWithError(c, http.StatusBadRequest, "invalid_request_error", "invalid request body: "+err.Error())
		return
	}
	// Unknown models are rejected before the pool is touched.
	if !models.IsKnown(req.Model) {
		common.AbortWithError(c, http.StatusBadRequest, "invalid_request_error", fmt.Sprintf("model %q not found", req.Model))
		return
	}
	c.Set("model", req.Model)

	prompt := BuildPrompt(req.Messages)

	if req.Stream {
		h.streamCompletion(c, req.Model, prompt)
		return
	}

	reply, err := h.dispatch(c, req.Model, prompt)
	if err != nil {
		h.usage.RecordFailure(req.Model)
		common.AbortWithError(c, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	h.usage.RecordSuccess(req.Model, streaming.WordCount(prompt), streaming.WordCount(reply))
	c.JSON(http.StatusOK, newResponse(req.Model, prompt, reply))
}

// dispatch acquires a session under the configured policy and runs one
// generation. Failover across cookies happens inside the pool; a
// generation failure after the session was obtained is surfaced as-is.
func (h *Handler) dispatch(c *gin.Context, model, prompt string) (string, error) {
	ctx, span := tracing.StartSpan(c.Request.Context(), "dispatch", "chat_completion")
	defer span.End()
	span.SetAttributes(attribute.String("gen_ai.request.model", model))

	sess, cred, err := h.pool.Acquire(ctx, h.policy)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	c.Set("cookie_name", cred.Name)
	span.SetAttributes(attribute.String("cookie.name", cred.Name))

	genCtx, cancel := context.WithTimeout(ctx, h.cfg.GenerateTimeout())
	defer cancel()
	reply, err := sess.Generate(genCtx, model, prompt)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	return reply, nil
}

// streamCompletion emits the reply as a paced word-by-word SSE
// sequence. Failures surface as an in-band terminal chunk so the
// client always sees a well-formed stream.
func (h *Handler) streamCompletion(c *gin.Context, model, prompt string) {
	common.SSEHeaders(c)
	w := c.Writer
	id := newCompletionID()
	created := time.Now().Unix()

	reply, err := h.dispatch(c, model, prompt)
	if err != nil {
		h.usage.RecordFailure(model)
		reason := "error"
		_ = common.SSEWriteData(w, w, newChunk(id, created, model, Delta{Content: err.Error()}, &reason))
		_ = common.SSEWriteDone(w, w)
		return
	}
	h.usage.RecordSuccess(model, streaming.WordCount(prompt), streaming.WordCount(reply))

	first := true
	_ = streaming.StreamWords(c.Request.Context(), reply, h.cfg.WordDelay(), func(delta string, _ bool) error {
		d := Delta{Content: delta}
		if first {
			d.Role = "assistant"
			first = false
		}
		return common.SSEWriteData(w, w, newChunk(id, created, model, d, nil))
	})

	reason := "stop"
	_ = common.SSEWriteData(w, w, newChunk(id, created, model, Delta{}, &reason))
	_ = common.SSEWriteDone(w, w)
}
