package delivery

import (
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

func RegisterRoutes(r chi.Router, h *SummaryHandler, summariesDir string) {
	r.Route("/api", func(api chi.Router) {
		api.Use(httputil.RecoverMiddleware)

		// генерация тяжёлая, поэтому лимит на IP
		api.With(httprate.LimitByIP(10, time.Minute)).
			Post("/summary", h.Summarize)

		api.Get("/credits", h.GetCredits)
		api.Get("/packages", h.ListPackages)
		api.Post("/credits/add", h.AddCredits)
	})

	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("pong"))
	})

	// готовые mp3 для случаев, когда S3 не настроен
	fs := http.StripPrefix("/summaries/", http.FileServer(http.Dir(summariesDir)))
	r.With(httputil.RecoverMiddleware).Get("/summaries/*", fs.ServeHTTP)
}
