package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
)

// MaxJSONBody caps request bodies read by ReadJSON.
const MaxJSONBody = 1 << 20

// ErrUnsupportedMediaType is returned by ReadJSONOrForm for bodies that are
// neither JSON nor form encoded.
var ErrUnsupportedMediaType = errors.New("httpx: unsupported media type")

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteRawJSON writes an already encoded JSON document unchanged.
func WriteRawJSON(w http.ResponseWriter, code int, body []byte) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// ReadJSON decodes a size-limited JSON body into v.
func ReadJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxJSONBody))
	return dec.Decode(v)
}

// ReadJSONOrForm fills fields from either a JSON object or a url-encoded /
// multipart form, depending on Content-Type. Only string values are kept.
func ReadJSONOrForm(r *http.Request, fields ...string) (map[string]string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	out := make(map[string]string, len(fields))

	switch ct {
	case "application/json", "":
		raw := map[string]any{}
		if err := ReadJSON(r, &raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		for _, f := range fields {
			if s, ok := raw[f].(string); ok {
				out[f] = s
			}
		}
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(MaxJSONBody); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
		for _, f := range fields {
			out[f] = r.FormValue(f)
		}
	default:
		return nil, ErrUnsupportedMediaType
	}
	return out, nil
}
