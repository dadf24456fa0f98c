package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/mobisniff/pkg/mobi"
	"github.com/samcharles93/mobisniff/pkg/pdb"
)

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": ErrorBody{
			Message: msg,
			Type:    errType,
		},
	})
}

// writeClassifyError maps classifier errors onto HTTP statuses. Structural
// corruption is the client's bad input; a valid but foreign or unsupported
// container is unprocessable.
func writeClassifyError(c *echo.Context, err error) error {
	switch {
	case errors.Is(err, pdb.ErrMalformedContainer):
		return writeError(c, http.StatusBadRequest, "malformed_container", err.Error())
	case errors.Is(err, mobi.ErrUnsupportedFormat):
		return writeError(c, http.StatusUnprocessableEntity, "unsupported_format", err.Error())
	case errors.Is(err, mobi.ErrUnrecognizedFormat):
		return writeError(c, http.StatusUnprocessableEntity, "unrecognized_format", err.Error())
	default:
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// readLimited reads at most limit bytes and fails if the body is longer.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, newInvalidRequest("request body too large")
	}
	return data, nil
}
