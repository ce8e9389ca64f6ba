package sanitize

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/herkeens/Secure-Payment-App/internal/pkg/errs"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/req"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/resp"
)

// Middleware returns the request-sanitization middleware. It runs before any
// route handler: the JSON body (when present) is decoded, cleaned, and
// re-serialized, and every query parameter is stripped of markup. Handlers
// therefore never observe raw, unsanitized input.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hasJSONBody(r) {
				r.Body = http.MaxBytesReader(w, r.Body, req.MaxBodySize)

				raw, err := io.ReadAll(r.Body)
				if err != nil {
					var maxBytesErr *http.MaxBytesError
					if errors.As(err, &maxBytesErr) {
						resp.RespondError(w, r, errs.NewError(errs.ErrRequestEntityTooLarge))
						return
					}
					resp.RespondError(w, r, errs.NewError(errs.ErrInvalidJSONFormat))
					return
				}

				r.Body = io.NopCloser(bytes.NewReader(sanitizeBody(raw)))
			}

			sanitizeQuery(r)

			next.ServeHTTP(w, r)
		})
	}
}

func hasJSONBody(r *http.Request) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return false
	}
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// sanitizeBody cleans a raw JSON payload. Payloads that do not decode are
// passed through untouched; the binding layer rejects them with a precise
// error instead of this middleware masking the syntax problem.
func sanitizeBody(raw []byte) []byte {
	if len(raw) == 0 {
		return raw
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return raw
	}

	cleaned, err := json.Marshal(Clean(decoded))
	if err != nil {
		return raw
	}

	return cleaned
}

// sanitizeQuery strips markup from every query parameter value in place.
func sanitizeQuery(r *http.Request) {
	if r.URL.RawQuery == "" {
		return
	}

	query := r.URL.Query()
	for key, values := range query {
		for i, value := range values {
			values[i] = String(value)
		}
		query[key] = values
	}
	r.URL.RawQuery = query.Encode()
}
