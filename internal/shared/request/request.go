package request

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strconv"

	"starships-server/internal/shared/errors"
)

const maxBodyBytes = 1 << 20

// Body is a decoded JSON object keyed by field name.
type Body map[string]json.RawMessage

// CheckFields rejects empty bodies, bodies with more entries than accepted fields,
// and bodies containing a field outside accepted.
func CheckFields(body Body, accepted []string) error {
	if len(body) == 0 {
		return errors.Validation("request body cannot be empty")
	}

	if len(body) > len(accepted) {
		return errors.Unprocessablef("request body cannot have more than %d properties", len(accepted))
	}

	for field := range body {
		if !slices.Contains(accepted, field) {
			return errors.Unprocessablef("invalid property '%s' in request", field)
		}
	}

	return nil
}

// Decode reads a JSON object from r, checks it against accepted, then unmarshals it into dst.
// The returned Body tells callers which fields were present.
func Decode(r *http.Request, dst any, accepted ...string) (Body, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.WrapValidation("failed to read request body", err)
	}

	body := Body{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, errors.WrapValidation("request body must be a JSON object", err)
		}
	}

	if err := CheckFields(body, accepted); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, errors.WrapValidation("invalid request body", err)
	}

	return body, nil
}

// Has reports whether field was present in the body, including explicit nulls.
func (b Body) Has(field string) bool {
	_, ok := b[field]
	return ok
}

// RejectNull fails when any present field carries an explicit JSON null.
func (b Body) RejectNull() error {
	for field, raw := range b {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return errors.Validationf("%s cannot be null", field)
		}
	}
	return nil
}

// PathID parses a positive integer path wildcard.
func PathID(r *http.Request, name string) (int, error) {
	value := r.PathValue(name)
	if value == "" {
		return 0, errors.Validationf("%s is required", name)
	}

	id, err := strconv.Atoi(value)
	if err != nil || id <= 0 {
		return 0, errors.Validationf("invalid %s %q", name, value)
	}

	return id, nil
}
