package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/robby/ghboards/internal/auth"
	"github.com/robby/ghboards/internal/domain"
	"github.com/robby/ghboards/internal/gh"
)

type clientHandler func(w http.ResponseWriter, r *http.Request, client GitHub)

// withClient resolves the caller's bearer token into a GitHub client.
func (s *Server) withClient(next clientHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.BearerToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r, s.clients(token))
	}
}

// viewer resolves the login pins are stored under. It writes the error
// response itself and reports false on failure.
func (s *Server) viewer(w http.ResponseWriter, r *http.Request, client GitHub) (string, bool) {
	login, err := client.Viewer(r.Context())
	if err != nil {
		s.logger.Printf("failed to resolve viewer: %v", err)
		status := viewerErrorStatus(err)
		if status == http.StatusUnauthorized {
			writeError(w, status, "Unauthorized")
		} else {
			writeError(w, status, "Failed to resolve GitHub user")
		}
		return "", false
	}
	return login, true
}

// viewerErrorStatus maps a failed viewer lookup to a response status:
// GitHub errors below 500 are auth failures, anything else is a 500.
func viewerErrorStatus(err error) int {
	var apiErr *gh.RemoteAPIError
	if !errors.As(err, &apiErr) {
		return http.StatusInternalServerError
	}
	if apiErr.StatusCode >= http.StatusInternalServerError {
		return http.StatusInternalServerError
	}
	return http.StatusUnauthorized
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request, client GitHub) {
	login, ok := s.viewer(w, r, client)
	if !ok {
		return
	}

	pins, err := s.pins.List(r.Context(), login)
	if err != nil {
		s.logger.Printf("failed to list pinned projects for %s: %v", login, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch saved project boards")
		return
	}

	cards := s.boards.Summaries(r.Context(), client, pins)
	writeJSON(w, http.StatusOK, map[string]any{"boards": cards})
}

// updatePinsRequest is the body of POST /api/projects.
type updatePinsRequest struct {
	Action  string                `json:"action"`
	URL     string                `json:"url"`
	Project *domain.PinnedProject `json:"project"`
}

func (req updatePinsRequest) validate() error {
	switch req.Action {
	case "add":
		if strings.TrimSpace(req.URL) == "" {
			return errors.New("url is required")
		}
	case "remove":
		if req.Project == nil {
			return errors.New("project is required")
		}
		return req.Project.Validate()
	default:
		return errors.New("action must be add or remove")
	}
	return nil
}

func (s *Server) handleUpdatePins(w http.ResponseWriter, r *http.Request, client GitHub) {
	var req updatePinsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.validate() != nil {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	login, ok := s.viewer(w, r, client)
	if !ok {
		return
	}

	var (
		pins []domain.PinnedProject
		err  error
	)
	if req.Action == "add" {
		pins, err = s.pins.Add(r.Context(), login, req.URL)
	} else {
		pins, err = s.pins.Remove(r.Context(), login, *req.Project)
	}

	if err != nil {
		if errors.Is(err, domain.ErrInvalidProjectURL) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Printf("failed to update pinned projects for %s: %v", login, err)
		writeError(w, http.StatusInternalServerError, "Failed to update saved project boards")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"pinnedProjects": pins})
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request, client GitHub) {
	owner := strings.TrimSpace(r.PathValue("owner"))
	number, err := strconv.Atoi(r.PathValue("number"))
	if owner == "" || err != nil || number <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid board route parameters")
		return
	}

	board, err := s.boards.Board(r.Context(), client, owner, number)
	if err != nil {
		writeError(w, boardErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"board": board})
}

// boardErrorStatus maps access and lookup failures to 404, anything else to 500.
func boardErrorStatus(err error) int {
	message := strings.ToLower(err.Error())
	if strings.Contains(message, "access") || strings.Contains(message, "not found") {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
