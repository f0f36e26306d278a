package main

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"wayfarer/autocom"
	"wayfarer/config"
	"wayfarer/db"
	"wayfarer/hub"
	"wayfarer/itinerary"
	"wayfarer/middleware"
	"wayfarer/mq"
	"wayfarer/places"
	"wayfarer/pricing"
	"wayfarer/ratelim"
	"wayfarer/rdx"
	"wayfarer/routes"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// XSS, content sniffing, framing
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		// HSTS (must be on HTTPS)
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		// Referrer and permissions
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Hijack is needed for websocket upgrades on /api/live.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsDev() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// storage
	var store itinerary.Store
	if cfg.MongoURI != "" {
		client, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			client.Close(closeCtx)
		}()
		if err := client.EnsureIndexes(ctx); err != nil {
			log.Warn("creating indexes failed", zap.Error(err))
		}
		store = db.NewMongoStore(client)
		log.Info("using mongo storage", zap.String("database", cfg.MongoDB))
	} else {
		store = db.NewMemStorage()
		log.Warn("MONGO_URI not set; itineraries are kept in memory")
	}

	// live updates
	liveHub := hub.NewHub(log.Named("hub"))
	go liveHub.Run()
	defer liveHub.Stop()

	var (
		rdb      *redis.Client
		notifier itinerary.Notifier = mq.NewDirect(liveHub, log.Named("mq"))
	)
	if cfg.RedisURL != "" {
		var err error
		rdb, err = rdx.Connect(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer rdb.Close()
		notifier = mq.NewRedisEmitter(rdb, log.Named("mq"))
		worker := mq.NewWorker(rdb, liveHub, log.Named("mq"))
		go func() {
			if err := worker.Run(ctx); err != nil {
				log.Error("event worker stopped", zap.Error(err))
			}
		}()
	} else {
		log.Warn("REDIS_URL not set; shared cache, autocomplete and cross-instance events are off")
	}

	// attraction data
	var (
		upstream places.Source
		fetcher  places.PhotoFetcher
	)
	if cfg.PlacesAPIKey != "" {
		client := places.NewClient(cfg.PlacesBaseURL, cfg.PlacesAPIKey, log.Named("places"))
		upstream, fetcher = client, client
	} else {
		upstream = places.StaticSource{}
		log.Warn("PLACES_API_KEY not set; serving sample attractions")
	}
	var cacheOpts []places.CacheOption
	var suggester autocom.Suggester
	if rdb != nil {
		index := autocom.NewIndex(rdb, log.Named("autocom"))
		suggester = index
		cacheOpts = append(cacheOpts,
			places.WithRemote(rdx.NewCache(rdb, "wayfarer:")),
			places.WithRecorder(index))
	}
	source := places.NewCachedSource(upstream, cfg.CacheTTL, log.Named("places"), cacheOpts...)

	if len(cfg.WarmCities) > 0 {
		warmer := places.NewWarmer(source, cfg.WarmCities, log.Named("warmer"))
		if err := warmer.Start(cfg.WarmSchedule); err != nil {
			return err
		}
		defer func() { <-warmer.Stop().Done() }()
	}

	// http
	rateLimiter := ratelim.NewRateLimiter(cfg.RatePerSecond, cfg.RateBurst)
	go rateLimiter.RunCleanup(ctx, time.Minute, 10*time.Minute)
	auth := middleware.NewAuth(cfg.JWTSecret)
	if len(cfg.JWTSecret) == 0 {
		log.Warn("JWT_SECRET not set; every request is anonymous")
	}

	svc := itinerary.NewService(store, notifier, log.Named("itinerary"))
	router := httprouter.New()
	routes.AddHealthRoutes(router)
	routes.AddAttractionRoutes(router,
		places.NewHandler(source, log.Named("places")),
		places.NewPhotoHandler(fetcher, cfg.PhotoDir, log.Named("photos")),
		rateLimiter)
	routes.AddDestinationRoutes(router, autocom.NewHandler(suggester, log.Named("autocom")))
	routes.AddItineraryRoutes(router,
		itinerary.NewHandler(svc, source, log.Named("itinerary"), cfg.ShareBaseURL),
		auth, rateLimiter)
	routes.AddLiveRoutes(router, liveHub, cfg.AllowedOrigins)
	routes.AddPricingRoutes(router, pricing.NewHandler(log.Named("pricing")))

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           loggingMiddleware(log, securityHeaders(corsHandler)),
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}
	server.RegisterOnShutdown(liveHub.Stop)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutdown signal received; shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped cleanly")
	return nil
}
