package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	DefaultReadTimeout  = 60 * time.Second
	DefaultWriteTimeout = DefaultReadTimeout
	shutdownTimeout     = 30 * time.Second
)

// Server wraps http.Server and drains in-flight requests on SIGINT or SIGTERM.
type Server struct {
	*http.Server

	signalChan chan os.Signal
}

// NewServer creates a Server with timeouts and handler.
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *Server {
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &Server{
		Server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		signalChan: make(chan os.Signal, 1),
	}
}

// ListenAndServe listens on tcp and serves until a shutdown signal has been handled.
func (srv *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("net.Listen error: %w", err)
	}
	return srv.Serve(ln)
}

// Serve serves on ln until a shutdown signal has been handled.
func (srv *Server) Serve(ln net.Listener) error {
	signal.Notify(srv.signalChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(srv.signalChan)

	done := make(chan error, 1)
	go func() {
		sig, ok := <-srv.signalChan
		if !ok {
			done <- nil
			return
		}
		Sugar.Infof("received %s, graceful shutting down HTTP server", sig)
		done <- srv.shutdown()
	}()

	err := srv.Server.Serve(ln)
	if !errors.Is(err, http.ErrServerClosed) {
		signal.Stop(srv.signalChan)
		close(srv.signalChan)
		<-done
		return err
	}
	return <-done
}

func (srv *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
		return err
	}
	Sugar.Info("HTTP server shutdown success")
	return nil
}

// GraceServer starts an HTTP server with graceful shutdown.
func GraceServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) error {
	return NewServer(addr, handler, readTimeout, writeTimeout).ListenAndServe()
}
