package app

import (
	"net/http"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOpenAPIDocument(t *testing.T) {
	app := newTestApplication()

	w := serve(t, app.Routes(), http.MethodGet, "/openapi.json", nil)
	require.Equal(t, http.StatusOK, w.Code)

	doc, err := openapi3.NewLoader().LoadFromData(w.Body.Bytes())
	require.NoError(t, err)
	require.NoError(t, doc.Validate(t.Context()))

	assert.Equal(t, "Showtime Booking API", doc.Info.Title)
	assert.NotNil(t, doc.Paths.Find("/showtimes/{showtimeId}/seats"))
}

func TestRoutesMatchOpenAPIDocument(t *testing.T) {
	doc, err := loadDocument()
	require.NoError(t, err)

	router, ok := newTestApplication().Routes().(chi.Routes)
	require.True(t, ok)

	registered := make(map[string]bool)
	err = chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+strings.TrimSuffix(route, "/")] = true
		return nil
	})
	require.NoError(t, err)

	for path, item := range doc.Paths.Map() {
		for method := range item.Operations() {
			assert.True(t, registered[method+" "+path], "%s %s is not routed", method, path)
		}
	}
}
