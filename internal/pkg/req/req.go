/*
Package req provides helper functions for HTTP request parsing and data binding.

It encapsulates the logic for decoding JSON request bodies with strict settings
(unknown fields rejected, trailing content rejected, bounded size), and integrates
with the errs package so handlers can return binding failures directly.
*/
package req

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/herkeens/Secure-Payment-App/internal/pkg/errs"
)

// MaxBodySize defines the maximum allowed size (100 KB) for a JSON request body.
// The sanitization middleware enforces it with http.MaxBytesReader before any
// handler runs; BindJSON reports the overflow when decoding trips it.
const MaxBodySize int64 = 100 << 10 // 100 KB

// BindJSON attempts to bind the JSON data from the HTTP request body to the destination struct dst.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}
