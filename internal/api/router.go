/**
 * @description
 * This file sets up the HTTP router using the `chi` routing library. It
 * defines all the API routes and applies the logging and recovery
 * middleware.
 *
 * @dependencies
 * - github.com/go-chi/chi/v5: The routing library.
 */
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates and configures a new HTTP router.
func NewRouter(accounts *AccountHandler, notifications *NotificationHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	r.Route("/accounts", func(r chi.Router) {
		r.Get("/", accounts.ListAccounts)
		r.Post("/requests", accounts.SubmitRequest)
		r.Post("/{number}/approve", accounts.Approve)
		r.Post("/{number}/reject", accounts.Reject)
	})

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", notifications.List)
		r.Get("/unread", notifications.ListUnread)
		r.Post("/read", notifications.MarkAllRead)
		r.Delete("/", notifications.Clear)
	})

	return r
}
