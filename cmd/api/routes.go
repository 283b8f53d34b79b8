package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	// timeout spawns the rest of the chain in its own goroutine, so
	// recoverPanic must sit inside it to recover in that same goroutine
	// rather than the one blocked on the timeout's select.
	r.Use(app.timeout)
	r.Use(app.recoverPanic)
	r.Use(app.logRequest)
	r.Use(securityHeaders)
	r.Use(app.corsHeaders)

	r.Get("/health", app.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(app.authenticate)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/exercises", app.handleListExercises)
			r.Post("/exercises", app.handleCreateExercise)

			r.Get("/workouts", app.handleListWorkouts)
			r.Post("/workouts", app.handleCreateWorkout)
			r.Post("/workouts/{workoutID}/end", app.handleEndWorkout)

			r.Get("/workouts/{workoutID}/sets", app.handleListSets)
			r.Post("/workouts/{workoutID}/sets", app.handleLogSet)

			r.Delete("/sets/{setID}", app.handleDeleteSet)
		})
	})

	return r
}
