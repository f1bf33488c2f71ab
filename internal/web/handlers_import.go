package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/scizon/internal/importer"
	"github.com/JonMunkholm/scizon/internal/logging"
	"github.com/JonMunkholm/scizon/internal/web/templates"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// handleImport runs one import attempt for the instance and responds with
// the settled snapshot. The MIME type comes from the part header, so the
// format check happens before any content is read.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	inst := InstanceFromContext(r.Context())
	logger := logging.WithFields(r.Context(), "session_id", inst.ID)

	if inst.Import.Busy() {
		s.respondImport(w, r, inst.Import.Snapshot(), http.StatusConflict)
		return
	}

	if limit := s.cfg.Import.MaxFileSize; limit > 0 {
		// Leave room for the multipart envelope; the reader enforces the exact cap.
		r.Body = http.MaxBytesReader(w, r.Body, limit+multipartMemory)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.rejectImport(w, r, fmt.Errorf("%w: %v", importer.ErrFileTooLarge, err), http.StatusRequestEntityTooLarge)
			return
		}
		s.rejectImport(w, r, fmt.Errorf("%w: invalid form: %v", importer.ErrRead, err), http.StatusBadRequest)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logger.Warn("remove multipart files", "error", err)
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.rejectImport(w, r, fmt.Errorf("%w: no file provided: %v", importer.ErrRead, err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	logger.Info("import received", "file", header.Filename, "size", header.Size)

	snap, err := inst.Import.Import(r.Context(), importer.Upload{
		Name:     header.Filename,
		MIMEType: header.Header.Get("Content-Type"),
		Size:     header.Size,
		Content:  file,
	})
	s.respondImport(w, r, snap, importStatus(err))
}

// rejectImport settles a request that never reached the pipeline, so the
// banner shows err instead of the previous attempt's result.
func (s *Server) rejectImport(w http.ResponseWriter, r *http.Request, err error, status int) {
	inst := InstanceFromContext(r.Context())
	logging.FromContext(r.Context()).Warn("import rejected", "session_id", inst.ID, "error", err)

	snap, ferr := inst.Import.Fail(err)
	if errors.Is(ferr, importer.ErrBusy) {
		status = http.StatusConflict
	}
	s.respondImport(w, r, snap, status)
}

// respondImport writes the snapshot as JSON with status. HTMX requests always
// get 200 with the feedback banner, since htmx does not swap error responses.
func (s *Server) respondImport(w http.ResponseWriter, r *http.Request, snap importer.Snapshot, status int) {
	if isHTMX(r) {
		render(w, r, http.StatusOK, templates.FeedbackBanner(snap.Feedback))
		return
	}
	writeJSONStatus(w, status, snap)
}

// handleImportSnapshot returns the current import state.
func (s *Server) handleImportSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, InstanceFromContext(r.Context()).Import.Snapshot())
}

// handleImportDismiss clears the feedback banner.
func (s *Server) handleImportDismiss(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, InstanceFromContext(r.Context()).Import.Dismiss())
}

// handleLimiterStatus reports the process-wide import slots.
func (s *Server) handleLimiterStatus(w http.ResponseWriter, r *http.Request) {
	limiter := s.importer.Limiter()
	if limiter == nil {
		writeJSON(w, importer.LimiterStatus{})
		return
	}
	writeJSON(w, limiter.Status())
}

// handleImportEvents streams the instance's import phases via Server-Sent
// Events. The stream ends with a "complete" event once the attempt settles,
// or right after the first snapshot when nothing is running.
func (s *Server) handleImportEvents(w http.ResponseWriter, r *http.Request) {
	inst := InstanceFromContext(r.Context())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	rc := http.NewResponseController(w)
	events := inst.Import.Subscribe()
	seq := 0

	for {
		select {
		case snap, ok := <-events:
			if !ok {
				fmt.Fprint(w, "event: complete\ndata: {}\n\n")
				_ = rc.Flush()
				return
			}

			data, err := json.Marshal(snap)
			if err != nil {
				logging.FromContext(r.Context()).Error("marshal snapshot", "error", err)
				return
			}
			seq++
			fmt.Fprintf(w, "id: %d\nevent: phase\ndata: %s\n\n", seq, data)
			if err := rc.Flush(); err != nil {
				logging.FromContext(r.Context()).Warn("streaming not supported", "error", err)
				return
			}

		case <-r.Context().Done():
			return
		}
	}
}
