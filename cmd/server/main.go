package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/G17aurav/Word-Guess/internal/game"
	"github.com/G17aurav/Word-Guess/internal/gateway"
	"github.com/G17aurav/Word-Guess/internal/shared/configs"
	"github.com/G17aurav/Word-Guess/internal/shared/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.SetTrustedProxies([]string{"127.0.0.1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})
	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		if slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func loadWords(cfg configs.Config, logger zerolog.Logger) (*game.WordBank, error) {
	if cfg.WordsFile == "" {
		return game.DefaultWordBank(), nil
	}
	bank, err := game.LoadWordBank(cfg.WordsFile)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("file", cfg.WordsFile).Int("words", bank.Len()).Msg("word bank loaded")
	return bank, nil
}

func run(ctx context.Context, cfg configs.Config, logger zerolog.Logger) error {
	words, err := loadWords(cfg, logger)
	if err != nil {
		return err
	}

	settings := game.Settings{
		RoundDuration:       cfg.RoundDuration,
		ChooseWordDuration:  cfg.ChooseWordDuration,
		TurnSummaryDuration: cfg.TurnSummaryDuration,
		MaxRounds:           cfg.MaxRounds,
		WordChoices:         cfg.WordChoices,
	}
	hub := gateway.NewHub(logger)
	engine := game.NewEngine(game.NewRegistry(game.NewIdGen()), words, hub, game.NewSystemClock(), settings, logger)

	options := gateway.DefaultOptions()
	options.SendBuffer = cfg.SendBuffer
	options.Limits = gateway.Limits{
		ChatRate:  rate.Limit(cfg.ChatRate),
		ChatBurst: cfg.ChatBurst,
		DrawRate:  rate.Limit(cfg.DrawRate),
		DrawBurst: cfg.DrawBurst,
	}
	gameHandler := gateway.NewGameHandler(engine, hub, options, logger)

	gin.SetMode(cfg.GinMode)
	r := CreateServer(cfg.AllowedOrigins)
	r.GET("/ws", gameHandler.WebsocketHandler)
	r.GET("/rooms/:code", gameHandler.RoomHandler)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return engine.Run(ctx)
	})
	g.Go(func() error {
		logger.Info().Str("addr", cfg.Addr).Strs("origins", cfg.AllowedOrigins).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func main() {
	cfg, err := configs.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := logger.New(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
	logger.Info().Msg("bye")
}
