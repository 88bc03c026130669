package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/darshanscodesoftwares/chess-arbiter/controller"
	"github.com/unrolled/render"
)

type Server struct {
	server *http.Server
}

// Config carries the handful of settings the web layer needs beyond the
// controller itself.
type Config struct {
	Port          int
	AdminPassword string
	// PublicBaseURL is the externally reachable address used when building
	// the share links handed to arbiters.
	PublicBaseURL string
}

func NewServer(cfg Config, ctrl controller.C) (*Server, error) {
	render := newRender()
	router := getRouter(ctrl, render, cfg)

	s := &Server{
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: router,
		},
	}
	return s, nil
}

func newRender() *render.Render {
	return render.New()
}

func (s *Server) ListenAndServe(shutdown chan bool, wg *sync.WaitGroup) {
	go func() {
		defer wg.Done()

		// Wait for the shutdown signal and safely close the server.
		<-shutdown

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			log.Fatalf("fatal error shutting down server: %v", err)
		}
	}()

	log.Printf("web server is listening on %s", s.server.Addr)
	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatalf("fatal error with server: %v", err)
	}
}
