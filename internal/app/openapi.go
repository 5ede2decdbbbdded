package app

import (
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/metinatakli/showtime-booking/api"
)

var loadDocument = sync.OnceValues(func() (*openapi3.T, error) {
	return api.GetSwagger()
})

// GetOpenAPIDocument serves the API description the router is generated from.
func (app *Application) GetOpenAPIDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := loadDocument()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, doc, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
