package http

import (
	"net/http"

	"khata/internal/core"
	applog "khata/internal/log"
)

// handleDashboard serves the per-user derived snapshot. Results are
// cached briefly and invalidated by every write from the same user, so
// a user always sees their own changes immediately.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, ident core.Identity) {
	key := string(ident.UserID)

	if cached, found := s.dashCache.Get(key); found {
		applog.FromContext(r.Context()).Debug("Dashboard cache hit", applog.FieldUserID, ident.UserID)
		writeJSON(w, http.StatusOK, cached)
		return
	}

	dashboard, err := s.svc.Dashboard(r.Context(), ident)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.dashCache.Set(key, dashboard)
	writeJSON(w, http.StatusOK, dashboard)
}

func (s *Server) invalidateDashboard(ident core.Identity) {
	s.dashCache.Delete(string(ident.UserID))
}
