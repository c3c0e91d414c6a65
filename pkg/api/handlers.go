package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/ssargent/osrkit/pkg/archive"
	"github.com/ssargent/osrkit/pkg/codec"
	"github.com/ssargent/osrkit/pkg/osr"
	"github.com/ssargent/osrkit/pkg/replay"
)

const defaultMaxUploadBytes = 32 << 20

// Server holds the API server state
type Server struct {
	archive ReplayArchive
	codec   *osr.Codec
	config  ServerConfig
	metrics *Metrics
	logger  zerolog.Logger
}

// NewServer creates a new API server
func NewServer(replays ReplayArchive, replayCodec *osr.Codec, config ServerConfig, metrics *Metrics, logger zerolog.Logger) *Server {
	if replayCodec == nil {
		replayCodec = osr.NewCodec()
	}
	return &Server{
		archive: replays,
		codec:   replayCodec,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// statusForError maps archive and codec failures to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, archive.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, archive.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, archive.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, archive.ErrCorrupt):
		return http.StatusInternalServerError
	}

	switch codec.KindOf(err) {
	case codec.KindUnsupported:
		return http.StatusUnsupportedMediaType
	case codec.KindStream, codec.KindFormat, codec.KindOverflow, codec.KindCompression:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// readUpload reads a request body bounded by the configured upload limit
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	limit := s.config.MaxUploadBytes
	if limit <= 0 {
		limit = defaultMaxUploadBytes
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(w, fmt.Sprintf("Request body exceeds %d bytes", limit), http.StatusRequestEntityTooLarge)
			return nil, false
		}
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return nil, false
	}
	if len(body) == 0 {
		sendError(w, "Request body is empty", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy", "engine": s.codec.Engine()})
}

// handleDecode godoc
//
//	@Summary		Decode a replay
//	@Description	Decode an uploaded .osr container without storing it
//	@Tags			replays
//	@Accept			octet-stream
//	@Produce		json
//	@Param			body	body		[]byte	true	"Replay container"
//	@Success		200		{object}	ReplaySummary
//	@Failure		400		{object}	map[string]string
//	@Failure		413		{object}	map[string]string
//	@Failure		415		{object}	map[string]string
//	@Failure		422		{object}	map[string]string
//	@Router			/decode [post]
//	@Security		ApiKeyAuth
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	start := time.Now()
	rp, err := s.codec.Unmarshal(body)
	s.metrics.RecordCodecOperation("decode", err == nil, time.Since(start))
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to decode replay: %v", err), statusForError(err))
		return
	}
	s.metrics.RecordDecodedFrames(len(rp.Frames))

	sendSuccess(w, NewReplaySummary(rp))
}

// handleImport godoc
//
//	@Summary		Import a replay
//	@Description	Decode an uploaded .osr container and store it in the archive
//	@Tags			replays
//	@Accept			octet-stream
//	@Produce		json
//	@Param			body	body		[]byte	true	"Replay container"
//	@Success		201		{object}	archive.Entry
//	@Failure		400		{object}	map[string]string
//	@Failure		409		{object}	map[string]string
//	@Failure		422		{object}	map[string]string
//	@Router			/replays [post]
//	@Security		ApiKeyAuth
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	start := time.Now()
	entry, err := s.archive.Put(body)
	s.metrics.RecordCodecOperation("import", err == nil, time.Since(start))
	if err != nil {
		if errors.Is(err, archive.ErrDuplicate) && entry != nil {
			sendError(w, fmt.Sprintf("Replay already archived as %s", entry.ID), http.StatusConflict)
			return
		}
		sendError(w, fmt.Sprintf("Failed to import replay: %v", err), statusForError(err))
		return
	}
	s.metrics.RecordDecodedFrames(entry.Frames)
	s.refreshArchiveStats()

	w.Header().Set("Location", "/api/v1/replays/"+entry.ID)
	sendJSON(w, http.StatusCreated, entry)
}

// handleListReplays godoc
//
//	@Summary		List replays
//	@Description	List every archived replay, oldest first
//	@Tags			replays
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Failure		500	{object}	map[string]string
//	@Router			/replays [get]
//	@Security		ApiKeyAuth
func (s *Server) handleListReplays(w http.ResponseWriter, r *http.Request) {
	entries, err := s.archive.List()
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to list replays: %v", err), statusForError(err))
		return
	}

	sendSuccess(w, map[string]interface{}{"replays": entries, "count": len(entries)})
}

// handleGetReplay godoc
//
//	@Summary		Get a replay summary
//	@Description	Get the archive entry for a replay
//	@Tags			replays
//	@Produce		json
//	@Param			id	path		string	true	"Replay ID"
//	@Success		200	{object}	archive.Entry
//	@Failure		400	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Router			/replays/{id} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleGetReplay(w http.ResponseWriter, r *http.Request) {
	entry, err := s.archive.Entry(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to get replay: %v", err), statusForError(err))
		return
	}

	sendSuccess(w, entry)
}

// handleFramesCSV godoc
//
//	@Summary		Replay frames as CSV
//	@Description	Render the cursor frames of an archived replay. Use ?header=false to omit the header row.
//	@Tags			replays
//	@Produce		text/csv
//	@Param			id		path		string	true	"Replay ID"
//	@Param			header	query		bool	false	"Include the header row"
//	@Success		200		{string}	string
//	@Failure		404		{object}	map[string]string
//	@Router			/replays/{id}/frames.csv [get]
//	@Security		ApiKeyAuth
func (s *Server) handleFramesCSV(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rp, err := s.archive.Get(id)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to load replay: %v", err), statusForError(err))
		return
	}

	header := r.URL.Query().Get("header") != "false"

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".csv"))
	if err := replay.WriteFramesCSV(w, rp.Frames, header); err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("failed to write frames csv")
	}
}

// handleRaw godoc
//
//	@Summary		Download a replay
//	@Description	Download the stored .osr container
//	@Tags			replays
//	@Produce		octet-stream
//	@Param			id	path		string	true	"Replay ID"
//	@Success		200	{string}	byte
//	@Failure		404	{object}	map[string]string
//	@Failure		500	{object}	map[string]string
//	@Router			/replays/{id}/raw [get]
//	@Security		ApiKeyAuth
func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	raw, err := s.archive.Raw(id)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to read replay: %v", err), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".osr"))
	if _, err := w.Write(raw); err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("failed to write replay")
	}
}

// handleDeleteReplay godoc
//
//	@Summary		Delete a replay
//	@Description	Remove a replay from the archive
//	@Tags			replays
//	@Produce		json
//	@Param			id	path		string	true	"Replay ID"
//	@Success		200	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Router			/replays/{id} [delete]
//	@Security		ApiKeyAuth
func (s *Server) handleDeleteReplay(w http.ResponseWriter, r *http.Request) {
	if err := s.archive.Delete(chi.URLParam(r, "id")); err != nil {
		sendError(w, fmt.Sprintf("Failed to delete replay: %v", err), statusForError(err))
		return
	}
	s.refreshArchiveStats()

	sendSuccess(w, map[string]string{"message": "Replay deleted successfully"})
}

func (s *Server) refreshArchiveStats() {
	count, size, err := s.archive.Stats()
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read archive stats")
		return
	}
	s.metrics.UpdateArchiveStats(count, size)
}

// startMetricsUpdater periodically updates archive metrics until ctx is done
func (s *Server) startMetricsUpdater(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.refreshArchiveStats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshArchiveStats()
		}
	}
}
