package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	app := AppHandler{Sessions: deps.Sessions, DB: deps.DB, Users: deps.Users, FileCounts: deps.FileCounts}
	users := UserHandler{Users: deps.Users, Sessions: deps.Sessions}
	auth := AuthHandler{Users: deps.Users, Sessions: deps.Sessions, Limiter: deps.LoginLimiter}
	files := FileHandler{Users: deps.Users, Sessions: deps.Sessions, Files: deps.Files, Thumbs: deps.Thumbs}

	mux.HandleFunc("GET /status", app.Status)
	mux.HandleFunc("GET /stats", app.Stats)
	mux.HandleFunc("POST /users", users.Create)
	mux.HandleFunc("GET /users/me", users.Me)
	mux.HandleFunc("GET /connect", auth.Connect)
	mux.HandleFunc("GET /disconnect", auth.Disconnect)
	mux.HandleFunc("POST /files", files.Upload)
	mux.HandleFunc("GET /files", files.Index)
	mux.HandleFunc("GET /files/{id}", files.Show)
	mux.HandleFunc("PUT /files/{id}/publish", files.Publish)
	mux.HandleFunc("PUT /files/{id}/unpublish", files.Unpublish)
	mux.HandleFunc("GET /files/{id}/data", files.Data)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users        UserStore
	Sessions     SessionManager
	Files        FileService
	Thumbs       ThumbnailQueue
	FileCounts   FileCounter
	DB           DBPinger
	LoginLimiter RateLimiter
}
