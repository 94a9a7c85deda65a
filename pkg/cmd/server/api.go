package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sidejit/jitd/config"
	"github.com/sidejit/jitd/pkg/api"
	"github.com/sidejit/jitd/pkg/auth"
	"github.com/sidejit/jitd/pkg/blobstore"
	"github.com/sidejit/jitd/pkg/blobstore/filesystem"
	"github.com/sidejit/jitd/pkg/blobstore/postgres"
	"github.com/sidejit/jitd/pkg/enabler"
	"github.com/sidejit/jitd/pkg/enabler/natsio"
	"github.com/sidejit/jitd/pkg/jit"
	"github.com/sidejit/jitd/pkg/reclaimer"
	"github.com/sidejit/jitd/pkg/storage"
	"github.com/sidejit/jitd/pkg/storage/document"
	"github.com/sidejit/jitd/pkg/storage/memory"
)

type apiServer struct {
	c *config.Config

	quitCh chan bool
	doneCh chan bool

	store     storage.Interface
	handler   *api.Handler
	reclaimer *reclaimer.Reclaimer
	pgClient  *postgres.Client
}

func init() {
	formatter := &logrus.TextFormatter{
		FullTimestamp: true,
	}
	logrus.SetFormatter(formatter)

	// Output to stdout instead of the default stderr
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
}

func newAPIServer(c *config.Config) (*apiServer, error) {
	s := &apiServer{
		c:      c,
		quitCh: make(chan bool),
		doneCh: make(chan bool),
	}

	store, err := s.buildStore()
	if err != nil {
		return nil, err
	}
	s.store = store

	e, err := s.buildEnabler()
	if err != nil {
		return nil, err
	}

	issuer := auth.NewIssuer([]byte(c.JWTSecret), 0)
	selector := jit.NewSelector(e, []byte(c.AttemptSecret),
		time.Duration(c.EnableTimeout)*time.Second)

	s.handler = api.NewHandler(store, issuer, selector, c.BuildVersion)
	s.reclaimer = reclaimer.New(store,
		time.Duration(c.SweepInterval)*time.Second,
		time.Duration(c.SessionMaxAge)*time.Second)

	return s, nil
}

func (s *apiServer) buildStore() (storage.Interface, error) {
	if s.c.Storage != "document" {
		log.Info("Using in-memory storage")
		return memory.NewStore(), nil
	}

	var client blobstore.Client
	switch s.c.BlobBackend {
	case "postgres":
		pg, err := postgres.New(s.c.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s.pgClient = pg
		client = pg
		log.Info("Using document storage with PostgreSQL blob backend")
	default:
		fs, err := filesystem.New(s.c.DataDir)
		if err != nil {
			return nil, err
		}
		client = fs
		log.WithFields(log.Fields{"dir": s.c.DataDir}).
			Info("Using document storage with filesystem blob backend")
	}

	return document.NewStore(client), nil
}

func (s *apiServer) buildEnabler() (enabler.Interface, error) {
	if s.c.Enabler != "nats" {
		log.Info("Using simulated JIT enabler")
		return enabler.NewSimulator(), nil
	}

	log.WithFields(log.Fields{"url": s.c.NATSServerURL}).Info("Using NATS JIT enabler")

	return natsio.New(&natsio.Config{
		URL:     s.c.NATSServerURL,
		Timeout: time.Duration(s.c.EnableTimeout) * time.Second,
	})
}

func (s *apiServer) Serve() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(logger())

	// Register API endpoints
	s.handler.RegisterRoutes(e)

	// Start the session reclaimer
	s.reclaimer.Start()

	// Keep the blob backend connection fresh outside of request traffic
	if s.pgClient != nil {
		go s.pgClient.Maintain(time.Duration(s.c.RefreshInterval) * time.Second)
	}

	go func() {
		log.WithFields(log.Fields{
			"host": s.c.BindHost,
			"port": s.c.BindPort,
		}).Info("Starting server")

		if err := e.Start(fmt.Sprintf("%s:%d", s.c.BindHost, s.c.BindPort)); err != nil {
			e.Logger.Info("Shutting down the server")
		}
	}()

	// Wait until receiving the quit signal
	<-s.quitCh
	log.Info("Shutdown signal received")

	s.reclaimer.Stop()

	if s.pgClient != nil {
		if err := s.pgClient.Close(); err != nil {
			log.Errorf("failed to close blob backend: %v", err)
		}
	}

	// Create a 10 second timeout context
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown the echo web server
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Error(err)
	}

	// We've done!
	s.doneCh <- true
}

// Logger returns a middleware that logs HTTP requests.
func logger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			var err error
			if err = next(c); err != nil {
				c.Error(err)
			}
			stop := time.Now()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = res.Header().Get(echo.HeaderXRequestID)
			}
			reqSizeStr := req.Header.Get(echo.HeaderContentLength)
			if reqSizeStr == "" {
				reqSizeStr = "0"
			}
			reqSize, err := strconv.ParseInt(reqSizeStr, 10, 0)
			if err != nil {
				reqSize = -1
			}
			errMsg := ""
			if err != nil {
				errMsg = err.Error()
			}

			log.WithFields(log.Fields{
				"timestamp":     stop.Format(time.RFC3339),
				"id":            id,
				"remote_ip":     c.RealIP(),
				"host":          req.Host,
				"method":        req.Method,
				"uri":           req.RequestURI,
				"protocol":      req.Proto,
				"user_agent":    req.UserAgent(),
				"status":        res.Status,
				"status_text":   http.StatusText(res.Status),
				"referer":       req.Referer(),
				"error":         errMsg,
				"bytes_in":      reqSize,
				"bytes_out":     res.Size,
				"latency":       stop.Sub(start).Nanoseconds(),
				"latency_human": stop.Sub(start).String(),
			}).Infof("%s %s %s %d %s", req.Method, req.RequestURI, req.Proto,
				res.Status, strconv.FormatInt(res.Size, 10))

			return err
		}
	}
}

func (s *apiServer) Shutdown() {
	// Send the quit signal to the server.Serve() routine
	s.quitCh <- true

	// Wait up to 10 seconds
	select {
	case <-s.doneCh:
		log.Info("Shutdown server successful")
	case <-time.After(10 * time.Second):
		log.Error("Shutdown server failed")
	}
}

func RunServeAPI(c *config.Config) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		s, err := newAPIServer(c)
		if err != nil {
			log.Error("failed to create new server instance: ", err)
			os.Exit(1)
		}

		go s.Serve()

		// Wait for interrupt signal to gracefully shutdown the server
		quitCh := make(chan os.Signal, 1)
		signal.Notify(quitCh, os.Interrupt)
		<-quitCh

		// Shutdown the server
		s.Shutdown()
	}
}
