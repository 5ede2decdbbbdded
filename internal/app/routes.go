package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/metinatakli/showtime-booking/api"
	"github.com/riandyrn/otelchi"
)

var _ api.ServerInterface = (*Application)(nil)

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(app.requestLogger)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)

	r.Get("/openapi.json", app.GetOpenAPIDocument)

	api.HandlerWithOptions(app, api.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: app.invalidParamResponse,
	})

	return r
}
