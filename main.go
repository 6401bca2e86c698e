//
// Blog
// ====
// An in-memory blog service: articles, comment threads and per-user likes.
//
// Also check the generated docs from passing the -routes flag,
// to run yourself do: `go run . -routes`
//
// Boot the server:
// ----------------
// $ go run main.go
//
// Client requests:
// ----------------
// $ curl http://localhost:3333/articles
// [{"slug":"welcome","title":"Welcome",...}]
//
// $ curl -X POST -d '{"title":"Hello World"}' http://localhost:3333/articles
// {"slug":"hello-world","title":"Hello World","subtitle":"","is_published":true,...}
//
// $ curl -X POST -d '{"title":"Hello World"}' http://localhost:3333/articles
// {"slug":"hello-world-2",...}
//
// $ curl -X POST -d '{"text":"nice"}' http://localhost:3333/articles/hello-world/comments
// {"id":"...","text":"nice","author":"Anon","created_at":"..."}
//
// $ curl -X POST -H 'X-User-Id: 42' http://localhost:3333/articles/hello-world/likes
// {"likes":1,"liked":true}
//
// $ curl -X POST -H 'X-User-Id: 42' http://localhost:3333/authors/ann/subscription
// {"subscribed":true,"count":1}
//
// $ curl -X DELETE http://localhost:3333/articles/hello-world
//
// $ curl http://localhost:3333/articles/hello-world
// {"status":"Resource not found."}
//
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/SergeyParamoshkin/blog/internal/applog"
	"github.com/SergeyParamoshkin/blog/internal/article"
	"github.com/SergeyParamoshkin/blog/internal/articleresponse"
	"github.com/SergeyParamoshkin/blog/internal/config"
	"github.com/SergeyParamoshkin/blog/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/docgen"
	"github.com/go-chi/render"
	"go.opentelemetry.io/otel/metric/global"
	"go.uber.org/zap"
)

const ServiceName = "blog"

type App struct {
	sugarLogger *zap.SugaredLogger
	store       *article.Store
	metrics     *metrics.Instruments
}

// nolint
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		routes   = flag.Bool("routes", cfg.Routes, "Generate router documentation")
		addr     = flag.String("addr", cfg.Addr, "application port")
		diagAddr = flag.String("diag_addr", cfg.DiagAddr, "diag port")
	)
	flag.Parse()

	logger, err := applog.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync() // flushes buffer, if any
	sugar := logger.Sugar()

	exporter, err := metrics.NewExporter()
	if err != nil {
		sugar.Panicf("failed to initialize prometheus exporter %v", err)
	}

	a := &App{
		sugarLogger: sugar,
		store:       article.NewStore(),
		metrics:     metrics.New(global.Meter(ServiceName)),
	}
	if cfg.Seed && a.store.Seed() {
		sugar.Infow("seeded demo article", "slug", "welcome")
	}

	r := a.Router()

	// Passing -routes to the program will generate docs for the above
	// router definition.
	if *routes {
		fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "github.com/SergeyParamoshkin/blog",
			Intro:       "Routes of the blog service.",
		}))

		return
	}

	diagRouter := chi.NewRouter()
	diagRouter.Get("/metrics", exporter.ServeHTTP)

	srv := &http.Server{Addr: *addr, Handler: r}
	diag := &http.Server{Addr: *diagAddr, Handler: diagRouter}

	for _, s := range []*http.Server{srv, diag} {
		go func(s *http.Server) {
			sugar.Infow("listening", "addr", s.Addr)
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				sugar.Errorw("server stopped", "addr", s.Addr, "error", err)
			}
		}(s)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	for _, s := range []*http.Server{srv, diag} {
		if err := s.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("shutdown failed", "addr", s.Addr, "error", err)
		}
	}
	sugar.Infow("stopped")
}

// Router wires middleware and mounts the articles, authors and users
// resources.
func (a *App) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(applog.Middleware(a.sugarLogger))
	r.Use(a.metrics.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := render.Render(w, r, articleresponse.NewStatusOK()); err != nil {
			a.sugarLogger.Errorw(err.Error())
		}
	})

	api := article.NewAPI(a.store, a.metrics)

	// RESTy routes for "articles" resource
	r.Mount("/articles", api.Routes())
	r.Mount("/authors", api.AuthorRoutes())
	r.Mount("/users", api.UserRoutes())

	return r
}
