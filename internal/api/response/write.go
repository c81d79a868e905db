package response

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
)

var encodeFailure = []byte(`{"error":{"code":"INTERNAL_ERROR","message":"Internal server error"}}` + "\n")

// JSON encodes data before writing anything, so a value that cannot be
// encoded turns into a 500 instead of a truncated body. Responses are never
// cached: table and game snapshots change with every action.
func JSON(w http.ResponseWriter, status int, data any) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(encodeFailure)
		return
	}

	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
