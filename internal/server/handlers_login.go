package server

import (
	"net/http"

	"battleship-lobby/internal/views"
	"battleship-lobby/internal/web"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

const loginTitle = "Battleship - Login"

func (s *Server) handleLoginView(w http.ResponseWriter, r *http.Request) {
	form := views.NewLoginForm(s.backendFor(r), loginPath, s.viewOptions(r)...)
	templ.Handler(web.Page(web.PageData{Title: loginTitle}, form.Render())).ServeHTTP(w, r)
}

// handleLoginSubmit redirects to the dashboard on success, handing the
// browser the backend's cookies scoped to this host. Any failure re-renders
// the form with the error banner.
func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	form := views.NewLoginForm(s.backendFor(r), loginPath, s.viewOptions(r)...)
	var req loginRequest
	if err := binding.Form.Bind(r, &req); err != nil {
		s.logger.Debug("bind login form", zap.Error(err))
	}
	form.SetPlayername(req.Playername)
	form.SetPassword(req.Password)
	result, err := form.Submit(r.Context())
	if err != nil {
		templ.Handler(web.Page(web.PageData{Title: loginTitle}, form.Render())).ServeHTTP(w, r)
		return
	}
	for _, cookie := range result.Cookies {
		relayed := *cookie
		relayed.Domain = ""
		http.SetCookie(w, &relayed)
	}
	http.Redirect(w, r, result.Location, http.StatusSeeOther)
}
