package handler

import (
	"net/http"
	"sync"

	"aquafund-backend/bootstrap"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog/log"
)

var (
	once    sync.Once
	handler http.HandlerFunc
	initErr error
)

// Handler is the serverless entry point. The gateway is built on the first invocation and reused
// while the instance stays warm. A failed build answers every request with 500.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		app, err := bootstrap.New()
		if err != nil {
			initErr = err
			log.Error().Err(err).Msg("gateway init failed")
			return
		}
		handler = adaptor.FiberApp(app)
	})
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal Server Error"}`))
		return
	}
	r.RequestURI = r.URL.String()
	handler(w, r)
}
