package server

import (
	"errors"
	"net/http"

	"github.com/desertthunder/spotdash/internal/services"
	"github.com/desertthunder/spotdash/internal/shared"
)

// apiError is the JSON body of a failed API request.
type apiError struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	opts, err := s.dashboard.WithOverrides(r.URL.Query())
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}

	view, err := s.buildView(r.Context(), opts)
	if err != nil {
		if errors.Is(err, shared.ErrTokenNotFound) {
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}
		s.renderError(w, r, statusFor(err), err)
		return
	}

	body, err := s.renderer.Dashboard(view)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeHTML(w, http.StatusOK, body)
}

func (s *Server) handleDashboardJSON(w http.ResponseWriter, r *http.Request) {
	opts, err := s.dashboard.WithOverrides(r.URL.Query())
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error(), Status: http.StatusBadRequest})
		return
	}

	view, err := s.buildView(r.Context(), opts)
	if err != nil {
		status := statusFor(err)
		s.logger.Warn("dashboard build failed", "id", RequestID(r.Context()), "error", err)
		s.writeJSON(w, status, apiError{Error: err.Error(), Status: status})
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	svc, err := s.newService()
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}

	state, err := shared.GenerateState()
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.states.SetDefault(state, struct{}{})

	http.Redirect(w, r, svc.AuthURL(state), http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	state := query.Get("state")
	if _, ok := s.states.Get(state); state == "" || !ok {
		s.renderError(w, r, http.StatusBadRequest, errors.New("invalid or expired state parameter"))
		return
	}
	s.states.Delete(state)

	if e := query.Get("error"); e != "" {
		s.renderError(w, r, http.StatusUnauthorized, authorizationError(e, query.Get("error_description")))
		return
	}

	code := query.Get("code")
	if code == "" {
		s.renderError(w, r, http.StatusBadRequest, errors.New("missing authorization code"))
		return
	}

	svc, err := s.newService()
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}

	token, err := svc.Exchange(r.Context(), code)
	if err != nil {
		s.renderError(w, r, statusFor(err), err)
		return
	}

	if err := services.SaveToken(s.tokens, token); err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}

	s.logger.Info("authorized", "id", RequestID(r.Context()), "expiry", token.Expiry)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.tokens.Delete(services.ServiceName); err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logger.Warn("request failed", "id", RequestID(r.Context()), "status", status, "error", err)

	body, renderErr := s.renderer.Error(status, err)
	if renderErr != nil {
		s.logger.Error("failed to render error page", "error", renderErr)
		http.Error(w, http.StatusText(status), status)
		return
	}
	writeHTML(w, status, body)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := shared.MarshalJSON(v, true)
	if err != nil {
		s.logger.Error("failed to encode response", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}
