package cmd

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/isometry/media-webhook-relay/internal/config"
	"github.com/isometry/media-webhook-relay/internal/handler"
	"github.com/isometry/media-webhook-relay/internal/runtime"
	"github.com/spf13/cobra"
)

func cmdService() *cobra.Command {
	return &cobra.Command{
		Use:     "service",
		Aliases: []string{"s", "serve", "standalone", "server"},
		RunE:    runService,
	}
}

func runService(cmd *cobra.Command, _ []string) error {
	logger = logger.With("mode", config.ModeService)
	logger.Info("spawning...")

	deps := newDependencies(cmd.Context(), logger)
	forward, notify := serviceHandlers(deps)

	logger.Debug("creating HTTP server...")
	router := newRouter(logger, forward, notify)
	s := &http.Server{
		Handler:      router,
		Addr:         net.JoinHostPort(config.Service.Addr, config.Service.Port),
		WriteTimeout: config.Service.Timeout,
		ReadTimeout:  config.Service.Timeout,
		IdleTimeout:  config.Service.Timeout,
	}

	logger.Info("serving...",
		slog.String("address", s.Addr),
		slog.String("forwardPath", config.Service.ForwardPath),
		slog.String("notifyPath", config.Service.NotifyPath),
		slog.String("timeout", config.Service.Timeout.String()))
	return s.ListenAndServe()
}

// serviceHandlers builds both handlers. A notifier that cannot be built is logged and left unmounted.
func serviceHandlers(deps *dependencies) (forward, notify handler.Handler) {
	forward = deps.forwardHandler()
	notify, err := deps.notifyHandler()
	if err != nil {
		deps.logger.Warn("notify handler disabled", slog.String("path", config.Service.NotifyPath), slog.Any("error", err))
		return forward, nil
	}
	return forward, notify
}

// newRouter mounts the handlers on every method so non-POST requests reach the handler's rejection path.
// Nil handlers are not mounted.
func newRouter(logger *slog.Logger, forward, notify handler.Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	mount := func(path, name string, h handler.Handler) {
		if h == nil {
			return
		}
		r.Any(path, gin.WrapH(runtime.NewRuntime(h,
			runtime.WithMaxBodyBytes(int64(config.Service.MaxBodyBytes)),
			runtime.WithLogger(logger.With("component", "runtime", "handler", name)))))
	}
	mount(config.Service.ForwardPath, config.HandlerForward, forward)
	mount(config.Service.NotifyPath, config.HandlerNotify, notify)
	return r
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request served",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("client", c.ClientIP()))
	}
}
