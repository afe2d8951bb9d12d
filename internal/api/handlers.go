// Package api exposes HTTP handlers for the exercise tracker.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/plarrip/exercise-tracker/internal/domain"
	"github.com/plarrip/exercise-tracker/web"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
	logger  zerolog.Logger
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, logger zerolog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", home)
	mux.HandleFunc("POST /api/users", h.createUser)
	mux.HandleFunc("GET /api/users", h.listUsers)
	mux.HandleFunc("POST /api/users/{id}/exercises", h.addExercise)
	mux.HandleFunc("GET /api/users/{id}/logs", h.getLog)
	mux.HandleFunc("/healthz", healthz)
}

func home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(web.IndexHTML)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	user, err := h.service.CreateUser(r.Context(), body["username"])
	if err != nil {
		h.writeDomainError(w, r, err, "failed to create user")
		return
	}

	writeJSON(w, http.StatusOK, UserView{Username: user.Username, ID: user.ID})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err, "failed to fetch users")
		return
	}

	views := make([]UserView, 0, len(users))
	for _, user := range users {
		views = append(views, UserView{Username: user.Username, ID: user.ID})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) addExercise(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	summary, err := h.service.AddExercise(r.Context(), domain.AddExerciseInput{
		UserID:      r.PathValue("id"),
		Description: body["description"],
		Duration:    body["duration"],
		Date:        body["date"],
	})
	if err != nil {
		h.writeDomainError(w, r, err, "failed to add exercise")
		return
	}

	writeJSON(w, http.StatusOK, ExerciseView{
		Username:    summary.Username,
		Description: summary.Description,
		Duration:    summary.Duration,
		Date:        summary.Date,
		ID:          summary.UserID,
	})
}

func (h *Handler) getLog(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	result, err := h.service.GetLog(r.Context(), r.PathValue("id"), domain.LogQuery{
		From:  params.Get("from"),
		To:    params.Get("to"),
		Limit: params.Get("limit"),
	})
	if err != nil {
		h.writeDomainError(w, r, err, "failed to fetch logs")
		return
	}

	log := make([]LogEntryView, 0, len(result.Log))
	for _, entry := range result.Log {
		log = append(log, LogEntryView{
			Description: entry.Description,
			Duration:    entry.Duration,
			Date:        entry.Date,
		})
	}

	writeJSON(w, http.StatusOK, LogView{
		Username: result.Username,
		Count:    result.Count,
		ID:       result.UserID,
		Log:      log,
	})
}

// UserView is the response shape for a user.
type UserView struct {
	Username string `json:"username"`
	ID       string `json:"id"`
}

// ExerciseView is the response shape for a recorded exercise. ID is the
// owning user's id.
type ExerciseView struct {
	Username    string `json:"username"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
	ID          string `json:"id"`
}

// LogEntryView is one projected exercise in a log response.
type LogEntryView struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// LogView is the response shape for a user's exercise log.
type LogView struct {
	Username string         `json:"username"`
	Count    int            `json:"count"`
	ID       string         `json:"id"`
	Log      []LogEntryView `json:"log"`
}

// readBody flattens a form-encoded or JSON request body into string fields.
// JSON numbers are rendered back to strings so both encodings reach the
// domain layer the same way.
func readBody(r *http.Request) (map[string]string, error) {
	fields := map[string]string{}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var raw map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, err
		}
		for key, value := range raw {
			switch v := value.(type) {
			case string:
				fields[key] = v
			case float64:
				fields[key] = strconv.FormatFloat(v, 'f', -1, 64)
			case bool:
				fields[key] = strconv.FormatBool(v)
			}
		}
		return fields, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	for key := range r.PostForm {
		fields[key] = r.PostForm.Get(key)
	}
	return fields, nil
}

func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("store failure")
		writeError(w, http.StatusBadGateway, fallback)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
