package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/quyetngv/bds-backend/api/responses"
	"github.com/quyetngv/bds-backend/pkg/logger"
	"github.com/quyetngv/bds-backend/pkg/storage/s3"
)

// The upload endpoints keep their pre-envelope wire shape: the CRM frontend
// and the automation worker both parse these bodies verbatim.

type presignRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

type presignResponse struct {
	URL    string `json:"url"`
	Key    string `json:"key"`
	Bucket string `json:"bucket"`
	Region string `json:"region"`
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// S3Presign issues a single-use PUT URL for a listing photo upload.
func S3Presign(client *s3.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			io.Copy(io.Discard, r.Body)
		}()

		var payload presignRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			responses.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "fileName and contentType are required"})
			return
		}
		if strings.TrimSpace(payload.FileName) == "" || strings.TrimSpace(payload.ContentType) == "" {
			responses.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "fileName and contentType are required"})
			return
		}

		key := buildObjectKey(payload.FileName, time.Now().UTC())
		upload, err := client.PresignPut(key, payload.ContentType)
		if err != nil {
			if logg != nil {
				logg.Error(r.Context(), "presign failed", err)
			}
			responses.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "presign_failed"})
			return
		}

		responses.WriteJSON(w, http.StatusOK, presignResponse{
			URL:    upload.URL,
			Key:    upload.Key,
			Bucket: upload.Bucket,
			Region: upload.Region,
		})
	}
}

// buildObjectKey namespaces uploads by date and strips characters that would
// need escaping in the signed URL. Vietnamese file names collapse to their
// ASCII subset; an all-unsafe name still gets a usable key.
func buildObjectKey(fileName string, now time.Time) string {
	base := path.Base(strings.TrimSpace(fileName))
	base = unsafeKeyChars.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-.")
	if base == "" {
		base = "upload"
	}
	return now.Format("2006/01/02") + "/" + base
}
