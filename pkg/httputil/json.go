package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperr "github.com/matzehuels/flowplan/pkg/errors"
)

// DefaultMaxBody is the request body limit used when none is configured.
const DefaultMaxBody = 1 << 20

// ErrorBody is the JSON shape of every API error.
type ErrorBody struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
}

// WriteJSON writes v as indented JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// WriteError writes err as an [ErrorBody] and returns the status used.
func WriteError(w http.ResponseWriter, err error) int {
	code := apperr.GetCode(err)
	msg := apperr.UserMessage(err)
	if code == "" || code == apperr.ErrCodeInternal {
		code = apperr.ErrCodeInternal
		msg = "internal error"
	}
	status := StatusFor(code)
	WriteJSON(w, status, ErrorBody{Code: code, Message: msg})
	return status
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code apperr.Code) int {
	switch code {
	case apperr.ErrCodeInvalidInput, apperr.ErrCodeInvalidGraph, apperr.ErrCodeInvalidBudget,
		apperr.ErrCodeInvalidStrategy, apperr.ErrCodeInvalidFormat, apperr.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case apperr.ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case apperr.ErrCodeNotFound, apperr.ErrCodeFileNotFound:
		return http.StatusNotFound
	case apperr.ErrCodeTimeout:
		return http.StatusRequestTimeout
	case apperr.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case apperr.ErrCodeCanceled:
		// Client closed the request; nginx convention.
		return 499
	case apperr.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON decodes the request body into v. Bodies over limit bytes fail
// with TOO_LARGE; malformed JSON and unknown fields fail with INVALID_INPUT.
// A limit of zero uses [DefaultMaxBody].
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any, limit int64) error {
	if limit <= 0 {
		limit = DefaultMaxBody
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperr.New(apperr.ErrCodeTooLarge, "request body exceeds %d bytes", limit)
		case errors.Is(err, io.EOF):
			return apperr.New(apperr.ErrCodeInvalidInput, "request body is empty")
		default:
			return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "decode request")
		}
	}
	if dec.More() {
		return apperr.New(apperr.ErrCodeInvalidInput, "request body has trailing data")
	}
	return nil
}
