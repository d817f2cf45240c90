package lingua

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// Response is the parsed result of a successful request.
type Response struct {
	StatusCode  int
	Header      http.Header
	ContentType string
	// Body is the raw response body.
	Body []byte
	// Data is the decoded JSON value when the response declared a JSON
	// content type, otherwise the body text.
	Data any
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// Decode unmarshals the raw body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}

	err := json.Unmarshal(r.Body, v)
	if err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}

	return nil
}

// IsJSON reports whether the response declared a JSON content type.
func (r *Response) IsJSON() bool {
	return IsJSONContentType(r.ContentType)
}

// IsJSONContentType reports whether a Content-Type header value names JSON,
// including vendor types such as application/problem+json.
func IsJSONContentType(contentType string) bool {
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	}

	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
