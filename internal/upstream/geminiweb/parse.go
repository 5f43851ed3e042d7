package geminiweb

import (
	"strings"

	"github.com/tidwall/gjson"
)

// parseGenerateResponse walks the chunked batchexecute payload and
// pulls out the first candidate's text. Each line is a JSON array of
// frames; a data frame looks like ["wrb.fr", null, "<inner json>"]
// where the inner document holds candidates at index 4 and the first
// candidate's text at [1][0]. Control frames carry no body; a nested
// error code may appear instead at [0][5][2][0][1][0].
func parseGenerateResponse(raw []byte) (string, error) {
	text := strings.TrimPrefix(string(raw), ")]}'")

	errCode := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "[") {
			continue
		}
		frames := gjson.Parse(line)
		if !frames.IsArray() {
			continue
		}

		var reply string
		found := false
		frames.ForEach(func(_, frame gjson.Result) bool {
			if frame.Get("0").String() != "wrb.fr" {
				return true
			}
			inner := gjson.Parse(frame.Get("2").String())
			body := inner.Get("4")
			if !body.Exists() || body.Type == gjson.Null {
				return true
			}
			candidate := inner.Get("4.0.1.0")
			if candidate.Exists() {
				reply = candidate.String()
				found = true
				return false
			}
			return true
		})
		if found {
			return reply, nil
		}

		if code := frames.Get("0.5.2.0.1.0"); code.Exists() && errCode == 0 {
			errCode = int(code.Int())
		}
	}

	if errCode != 0 {
		return "", apiErrorForCode(errCode)
	}
	return "", &APIError{Msg: "invalid response data received"}
}
