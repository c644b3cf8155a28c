package response

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"starships-server/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_StatusMapping(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		err     error
		status  int
		kind    string
		message string
	}{
		{errors.Validation("request body cannot be empty"), http.StatusBadRequest, "validation", "request body cannot be empty"},
		{errors.Unprocessablef("invalid property '%s' in request", "fuelLeft"), http.StatusUnprocessableEntity, "unprocessable", "invalid property 'fuelLeft' in request"},
		{errors.NotFoundf("starship with id=%d not found", 7), http.StatusNotFound, "not_found", "starship with id=7 not found"},
		{errors.Conflictf("name taken"), http.StatusConflict, "conflict", "name taken"},
		{errors.WrapExternal("class lookup failed", fmt.Errorf("dial tcp: refused")), http.StatusInternalServerError, "external", "class lookup failed"},
		{errors.WrapInternal("failed to update class", fmt.Errorf("pq: deadlock")), http.StatusInternalServerError, "internal", "failed to update class"},
		{fmt.Errorf("raw failure"), http.StatusInternalServerError, "internal", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.kind+"/"+tt.message, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/starship", nil)
			w := httptest.NewRecorder()

			Error(w, r, logger, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.kind, body.Error)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, tt.status, body.Code)
		})
	}
}

func TestMessage(t *testing.T) {
	w := httptest.NewRecorder()

	Message(w, http.StatusOK, "Starship deleted")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Starship deleted"}`, w.Body.String())
}
