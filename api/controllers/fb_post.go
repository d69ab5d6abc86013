package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/quyetngv/bds-backend/api/responses"
	"github.com/quyetngv/bds-backend/internal/publish"
	"github.com/quyetngv/bds-backend/pkg/logger"
)

type fbPostRequest struct {
	Message  string   `json:"message"`
	GroupIDs []string `json:"groupIds"`
}

type fbPostResponse struct {
	Results []publish.Result `json:"results"`
	Error   string           `json:"error,omitempty"`
}

// FbPost fans a raw message out to explicit group ids. A missing credential
// is reported as HTTP 200 with every result failed and the batch error set,
// so callers record history the same way for configuration and delivery
// failures.
func FbPost(svc publish.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			io.Copy(io.Discard, r.Body)
		}()

		var payload fbPostRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			responses.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "groupIds is required"})
			return
		}
		if len(payload.GroupIDs) == 0 {
			responses.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "groupIds is required"})
			return
		}

		results, missingToken := svc.FanOut(r.Context(), payload.Message, payload.GroupIDs)

		resp := fbPostResponse{Results: results}
		if missingToken {
			resp.Error = publish.ErrMissingToken
			if logg != nil {
				logg.Warn(r.Context(), "fan-out requested without a graph credential")
			}
		}
		responses.WriteJSON(w, http.StatusOK, resp)
	}
}
