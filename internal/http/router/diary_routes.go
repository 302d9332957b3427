package router

import "github.com/go-chi/chi/v5"

func registerDiaryRoutes(r chi.Router, d Deps) {
	authed(r, d).Get("/diary/{id}/", d.Diary.Get)
}
