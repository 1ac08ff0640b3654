package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	appErrors "chesslab/internal/errors"
)

const maxBodySize = 1 << 20

// DecodeJSONRequest decodes the body of r into dst. Unknown fields and
// malformed JSON are client errors.
func DecodeJSONRequest(r *http.Request, dst interface{}) error {
	return decodeJSON(r, dst, true)
}

// DecodeLenientJSONRequest is DecodeJSONRequest that ignores unknown fields.
func DecodeLenientJSONRequest(r *http.Request, dst interface{}) error {
	return decodeJSON(r, dst, false)
}

func decodeJSON(r *http.Request, dst interface{}, strict bool) error {
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if strict {
		decoder.DisallowUnknownFields()
	}
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", appErrors.ErrValidation, err)
	}
	return nil
}
