package web

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/scizon/internal/dashboard"
	"github.com/JonMunkholm/scizon/internal/importer"
	"github.com/JonMunkholm/scizon/internal/logging"
	"github.com/JonMunkholm/scizon/internal/session"
	"github.com/JonMunkholm/scizon/internal/web/templates"
)

// page builds the shared chrome for inst.
func page(inst *session.Instance, title string, r *http.Request) templates.Page {
	return templates.Page{
		Title:   title,
		Path:    r.URL.Path,
		Sidebar: inst.Sidebar,
		User:    inst.Profile.Current(),
	}
}

// render writes c as an HTML response with the given status.
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "path", r.URL.Path, "error", err)
	}
}

// handleDashboard renders the dashboard with the instance's import state.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	inst := InstanceFromContext(r.Context())
	render(w, r, http.StatusOK, templates.DashboardPage(page(inst, "Dashboard", r), templates.DashboardData{
		Stats:  dashboard.Stats(),
		Charts: []string{dashboard.ChartSales, dashboard.ChartUsers},
		Import: inst.Import.Snapshot(),
		Accept: importer.AcceptedExtensions,
	}))
}

// handleProfile renders the profile form with the saved values.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	inst := InstanceFromContext(r.Context())
	render(w, r, http.StatusOK, templates.ProfilePage(page(inst, "Perfil", r), templates.ProfileData{
		Form:   inst.Profile.Current(),
		Saving: inst.Profile.Saving(),
	}))
}

// handleProfileSave validates and saves the profile form. JSON clients get
// the toast or the field errors; browsers get the re-rendered page.
func (s *Server) handleProfileSave(w http.ResponseWriter, r *http.Request) {
	inst := InstanceFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	form := dashboard.Profile{
		FirstName: r.PostForm.Get("firstName"),
		LastName:  r.PostForm.Get("lastName"),
		Email:     r.PostForm.Get("email"),
		Phone:     r.PostForm.Get("phone"),
		Address:   r.PostForm.Get("address"),
		Bio:       r.PostForm.Get("bio"),
	}

	toast, err := inst.Profile.Save(r.Context(), form)

	var verrs dashboard.ValidationErrors
	switch {
	case err == nil:
	case errors.As(err, &verrs):
		if wantsJSON(r) {
			writeJSONStatus(w, http.StatusUnprocessableEntity, map[string]any{"errors": verrs})
			return
		}
		render(w, r, http.StatusUnprocessableEntity, templates.ProfilePage(page(inst, "Perfil", r), templates.ProfileData{
			Form:   form,
			Errors: verrs,
		}))
		return
	case errors.Is(err, dashboard.ErrProfileSaving):
		writeJSONStatus(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	default:
		logging.FromContext(r.Context()).Warn("profile save aborted", "error", err)
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	logging.FromContext(r.Context()).Info("profile saved", "session_id", inst.ID)

	saved := inst.Profile.Current()
	if wantsJSON(r) {
		writeJSON(w, map[string]any{"toast": toast, "profile": saved})
		return
	}
	render(w, r, http.StatusOK, templates.ProfilePage(page(inst, "Perfil", r), templates.ProfileData{
		Form:  saved,
		Toast: &toast,
	}))
}

// handleLogout drops the page instance and redirects to the logout route.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	inst := InstanceFromContext(r.Context())
	target := inst.Sidebar.Logout()
	s.clearSessionCookie(w)

	logging.FromContext(r.Context()).Info("session closed", "session_id", inst.ID)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleAuth is the landing page after logout.
func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, templates.AuthPage())
}

func (s *Server) handleSidebarToggle(w http.ResponseWriter, r *http.Request) {
	inst := InstanceFromContext(r.Context())
	writeJSON(w, map[string]bool{"open": inst.Sidebar.Toggle()})
}

func (s *Server) handleSidebarClose(w http.ResponseWriter, r *http.Request) {
	inst := InstanceFromContext(r.Context())
	inst.Sidebar.Close()
	writeJSON(w, map[string]bool{"open": false})
}
