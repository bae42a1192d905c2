package handlers

import (
	"errors"
	"net/http"

	"siar/internal/portal"

	"go.uber.org/zap"
)

// Upload accepts a multipart form with file, entityType and entityId.
func Upload(svc *portal.Service, maxBytes int64, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				respondMessage(w, http.StatusRequestEntityTooLarge, "File terlalu besar")
				return
			}
			respondMessage(w, http.StatusBadRequest, "Form upload tidak valid")
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "No file provided")
			return
		}
		defer file.Close()

		ref, err := portal.ParseEntityRef(r.FormValue("entityType"), r.FormValue("entityId"))
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		row, err := svc.UploadFile(r.Context(), actor(r), ref, portal.UploadInput{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		})
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondStatus(w, http.StatusCreated, row)
	}
}

func ListFiles(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		ref, err := portal.ParseEntityRef(q.Get("entityType"), q.Get("entityId"))
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		files, err := svc.ListFiles(r.Context(), actor(r), ref)
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondJSON(w, files)
	}
}
