// Package http implements the REST API for the Guessnica game server.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/guessnica/guessnica-server/internal/application/command"
	"github.com/guessnica/guessnica-server/internal/application/query"
	"github.com/guessnica/guessnica-server/internal/domain/settings"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// statusForError maps domain error kinds to HTTP status codes.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, shared.ErrValidation),
		errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvalidID),
		errors.Is(err, shared.ErrInvalidCoordinate),
		errors.Is(err, shared.ErrEmptyValue),
		errors.Is(err, shared.ErrNegativeValue),
		errors.Is(err, shared.ErrValueOutOfRange),
		errors.Is(err, shared.ErrInvalidFormat):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, shared.ErrAlreadyExists):
		return http.StatusConflict, "already_exists"
	case errors.Is(err, shared.ErrNotActive),
		errors.Is(err, shared.ErrInvalidState),
		errors.Is(err, shared.ErrExpired):
		return http.StatusConflict, "conflict"
	case errors.Is(err, shared.ErrLimitReached),
		errors.Is(err, shared.ErrRateLimited):
		return http.StatusTooManyRequests, "limit_reached"
	case errors.Is(err, shared.ErrForbidden),
		errors.Is(err, shared.ErrUnauthorized):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, shared.ErrStorageUnavailable),
		errors.Is(err, shared.ErrTimeout):
		return http.StatusServiceUnavailable, "storage_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeDomainError writes an error response for a domain error. Unexpected
// errors are logged with full detail but surfaced without internals.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusForError(err)

	if status >= 500 {
		s.logger.Error("request failed",
			logger.Err(err),
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
		)
		writeJSONError(w, status, code, "An unexpected error occurred")
		return
	}

	var de *shared.DomainError
	if errors.As(err, &de) {
		writeJSONError(w, status, code, de.Message)
		return
	}
	writeJSONError(w, status, code, err.Error())
}

// decodeJSON decodes a request body, rejecting unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// playerID extracts the player identity set by the upstream auth proxy.
func (s *Server) playerID(r *http.Request) string {
	header := s.config.PlayerIDHeader
	if header == "" {
		header = "X-Player-ID"
	}
	return r.Header.Get(header)
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "Guessnica API",
		"version":     "v1",
		"description": "REST API for Guessnica - guess the place, beat the leaderboard",
		"endpoints": map[string]string{
			"health":      "/health",
			"leaderboard": "/api/v1/leaderboard",
			"todayRiddle": "/api/v1/game/today-riddle",
			"submit":      "/api/v1/game/submit",
			"myStats":     "/api/v1/players/me/stats",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	// Default health response
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// handleMetrics handles the metrics endpoint.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := map[string]interface{}{
		"uptime_seconds": s.Uptime().Seconds(),
		"running":        s.IsRunning(),
	}

	writeJSON(w, http.StatusOK, metrics)
}

// ══════════════════════════════════════════════════════════════════════════════
// GAME HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// submitGuessRequest is the body of POST /api/v1/game/submit.
type submitGuessRequest struct {
	// RiddleID is optional; empty means "the riddle of the day".
	RiddleID       string  `json:"riddleId,omitempty"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	ElapsedSeconds float64 `json:"elapsedSeconds"`
}

// handleSubmitGuess handles POST /api/v1/game/submit.
func (s *Server) handleSubmitGuess(w http.ResponseWriter, r *http.Request) {
	playerID := s.playerID(r)
	if playerID == "" {
		writeJSONError(w, http.StatusUnauthorized, "missing_player_id", "Player identity header is required")
		return
	}

	var req submitGuessRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	cmd := command.SubmitGuessCommand{
		PlayerID:       playerID,
		RiddleID:       req.RiddleID,
		GuessLat:       req.Lat,
		GuessLng:       req.Lng,
		ElapsedSeconds: req.ElapsedSeconds,
		CorrelationID:  getRequestID(r.Context()),
	}

	result, err := s.deps.SubmitGuessHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// handleGetTodayRiddle handles GET /api/v1/game/today-riddle.
func (s *Server) handleGetTodayRiddle(w http.ResponseWriter, r *http.Request) {
	q := query.GetTodayRiddleQuery{
		PlayerID: s.playerID(r),
	}

	result, err := s.deps.GetTodayRiddleHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetLeaderboard handles GET /api/v1/leaderboard.
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := query.GetLeaderboardQuery{
		Category:  getQueryParam(r, "category", ""),
		TimeRange: getQueryParam(r, "timeRange", ""),
		Limit:     getQueryParamInt(r, "limit", 0),
	}

	result, err := s.deps.GetLeaderboardHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	meta := &ResponseMeta{
		TotalCount: result.TotalPlayers,
	}
	writeJSONWithMeta(w, r, http.StatusOK, result, meta)
}

// ══════════════════════════════════════════════════════════════════════════════
// PLAYER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// myStats runs the player stats query for the requesting player.
func (s *Server) myStats(w http.ResponseWriter, r *http.Request, historyLimit int) *query.GetPlayerStatsResult {
	playerID := s.playerID(r)
	if playerID == "" {
		writeJSONError(w, http.StatusUnauthorized, "missing_player_id", "Player identity header is required")
		return nil
	}

	q := query.GetPlayerStatsQuery{
		PlayerID:     playerID,
		HistoryLimit: historyLimit,
	}

	result, err := s.deps.GetPlayerStatsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return nil
	}
	return result
}

// handleGetMyStats handles GET /api/v1/players/me/stats.
func (s *Server) handleGetMyStats(w http.ResponseWriter, r *http.Request) {
	result := s.myStats(w, r, getQueryParamInt(r, "historyLimit", 10))
	if result == nil {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetMyRank handles GET /api/v1/players/me/rank.
func (s *Server) handleGetMyRank(w http.ResponseWriter, r *http.Request) {
	result := s.myStats(w, r, 0)
	if result == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"playerId": result.PlayerID,
		"ranks":    result.Ranks,
	})
}

// handleGetMyHistory handles GET /api/v1/players/me/history.
func (s *Server) handleGetMyHistory(w http.ResponseWriter, r *http.Request) {
	result := s.myStats(w, r, getQueryParamInt(r, "limit", 50))
	if result == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"playerId": result.PlayerID,
		"history":  result.History,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN: SETTINGS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetSettings handles GET /api/v1/admin/settings.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.deps.UpdateSettingsHandler.Current(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// handleUpdateSettings handles PUT /api/v1/admin/settings.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var cfg settings.Settings
	if err := decodeJSON(r, &cfg); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	updated, err := s.deps.UpdateSettingsHandler.Handle(r.Context(), command.UpdateSettingsCommand{Settings: cfg})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN: LOCATIONS
// ══════════════════════════════════════════════════════════════════════════════

// locationRequest is the body of POST/PUT location endpoints.
type locationRequest struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	CreatedBy   string  `json:"createdBy,omitempty"`
}

// handleListLocations handles GET /api/v1/admin/locations.
func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := s.deps.ManageLocationsHandler.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, locations)
}

// handleCreateLocation handles POST /api/v1/admin/locations.
func (s *Server) handleCreateLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	result, err := s.deps.ManageLocationsHandler.Create(r.Context(), command.CreateLocationCommand{
		Lat:         req.Lat,
		Lng:         req.Lng,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// handleUpdateLocation handles PUT /api/v1/admin/locations/{id}.
func (s *Server) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	result, err := s.deps.ManageLocationsHandler.Update(r.Context(), command.UpdateLocationCommand{
		LocationID:  r.PathValue("id"),
		Lat:         req.Lat,
		Lng:         req.Lng,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleDeleteLocation handles DELETE /api/v1/admin/locations/{id}.
func (s *Server) handleDeleteLocation(w http.ResponseWriter, r *http.Request) {
	err := s.deps.ManageLocationsHandler.Delete(r.Context(), command.DeleteLocationCommand{
		LocationID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN: RIDDLES
// ══════════════════════════════════════════════════════════════════════════════

// riddleRequest is the body of POST/PUT riddle endpoints.
type riddleRequest struct {
	LocationID        string  `json:"locationId"`
	Difficulty        string  `json:"difficulty"`
	TimeLimitSeconds  float64 `json:"timeLimitSeconds"`
	MaxDistanceMeters float64 `json:"maxDistanceMeters,omitempty"`
	ActiveDate        string  `json:"activeDate"` // "2006-01-02"
}

// handleListRiddles handles GET /api/v1/admin/riddles.
func (s *Server) handleListRiddles(w http.ResponseWriter, r *http.Request) {
	riddles, err := s.deps.ScheduleRiddleHandler.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, riddles)
}

// handleScheduleRiddle handles POST /api/v1/admin/riddles.
func (s *Server) handleScheduleRiddle(w http.ResponseWriter, r *http.Request) {
	var req riddleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	activeDate, err := parseDate(req.ActiveDate)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "activeDate must be YYYY-MM-DD")
		return
	}

	result, err := s.deps.ScheduleRiddleHandler.Handle(r.Context(), command.ScheduleRiddleCommand{
		LocationID:        req.LocationID,
		Difficulty:        req.Difficulty,
		TimeLimitSeconds:  req.TimeLimitSeconds,
		MaxDistanceMeters: req.MaxDistanceMeters,
		ActiveDate:        activeDate,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// handleRescheduleRiddle handles PUT /api/v1/admin/riddles/{id}.
func (s *Server) handleRescheduleRiddle(w http.ResponseWriter, r *http.Request) {
	var req riddleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	cmd := command.RescheduleRiddleCommand{
		RiddleID:          r.PathValue("id"),
		LocationID:        req.LocationID,
		Difficulty:        req.Difficulty,
		TimeLimitSeconds:  req.TimeLimitSeconds,
		MaxDistanceMeters: req.MaxDistanceMeters,
	}
	if req.ActiveDate != "" {
		activeDate, err := parseDate(req.ActiveDate)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "validation_error", "activeDate must be YYYY-MM-DD")
			return
		}
		cmd.ActiveDate = activeDate
	}

	result, err := s.deps.ScheduleRiddleHandler.Update(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleDeleteRiddle handles DELETE /api/v1/admin/riddles/{id}.
func (s *Server) handleDeleteRiddle(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.ScheduleRiddleHandler.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleGetRiddleStats handles GET /api/v1/admin/riddles/{id}/stats.
func (s *Server) handleGetRiddleStats(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetRiddleStatsHandler.Handle(r.Context(), query.GetRiddleStatsQuery{
		RiddleID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN: PLAYERS & SUBMISSIONS
// ══════════════════════════════════════════════════════════════════════════════

// registerPlayerRequest is the body of POST /api/v1/admin/players.
type registerPlayerRequest struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
}

// handleRegisterPlayer handles POST /api/v1/admin/players.
func (s *Server) handleRegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var req registerPlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	result, err := s.deps.RegisterPlayerHandler.Handle(r.Context(), command.RegisterPlayerCommand{
		PlayerID:    req.PlayerID,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// handleBlockPlayer handles POST /api/v1/admin/players/{id}/block.
func (s *Server) handleBlockPlayer(w http.ResponseWriter, r *http.Request) {
	s.setPlayerBlocked(w, r, true)
}

// handleUnblockPlayer handles POST /api/v1/admin/players/{id}/unblock.
func (s *Server) handleUnblockPlayer(w http.ResponseWriter, r *http.Request) {
	s.setPlayerBlocked(w, r, false)
}

func (s *Server) setPlayerBlocked(w http.ResponseWriter, r *http.Request, blocked bool) {
	err := s.deps.ManagePlayersHandler.SetBlocked(r.Context(), command.SetPlayerBlockedCommand{
		PlayerID: r.PathValue("id"),
		Blocked:  blocked,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"playerId": r.PathValue("id"),
		"blocked":  blocked,
	})
}

// renamePlayerRequest is the body of PUT /api/v1/admin/players/{id}/name.
type renamePlayerRequest struct {
	DisplayName string `json:"displayName"`
}

// handleRenamePlayer handles PUT /api/v1/admin/players/{id}/name.
func (s *Server) handleRenamePlayer(w http.ResponseWriter, r *http.Request) {
	var req renamePlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	err := s.deps.ManagePlayersHandler.Rename(r.Context(), command.RenamePlayerCommand{
		PlayerID:    r.PathValue("id"),
		DisplayName: req.DisplayName,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"playerId":    r.PathValue("id"),
		"displayName": req.DisplayName,
	})
}

// handleGetAdminStats handles GET /api/v1/admin/stats.
// Параметр ?range= задаёт окно активности в днях; без него окно
// берётся из настроек (podiumPeriod).
func (s *Server) handleGetAdminStats(w http.ResponseWriter, r *http.Request) {
	q := query.GetAdminStatsQuery{}
	if raw := r.URL.Query().Get("range"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "validation_error", "range must be an integer number of days")
			return
		}
		q.RangeDays = days
	}

	result, err := s.deps.GetAdminStatsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handlePurgeSubmission handles DELETE /api/v1/admin/submissions/{id}.
func (s *Server) handlePurgeSubmission(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.PurgeSubmissionHandler.Handle(r.Context(), command.PurgeSubmissionCommand{
		SubmissionID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
