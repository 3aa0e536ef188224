// Package e2etest drives a running inspector service over HTTP.
package e2etest

import (
	"context"
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/gizahealth/inspector/internal/logging"
	"io"
	"log/slog"
)

// LogAddrKey is the attribute under which the service logs its listen address.
const LogAddrKey = "addr"

// RunFunc has the signature of the service's run function.
type RunFunc func(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error

type Server struct {
	url    string
	client *Client
}

// addrLogger returns a debug logger writing to logSink that reports the first listen address on the returned channel.
func addrLogger(logSink io.Writer) (*slog.Logger, <-chan string) {
	addrCh := make(chan string, 1)
	handler := slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key != LogAddrKey {
				return a
			}
			select {
			case addrCh <- a.Value.String():
			default:
			}
			return a
		},
	})
	return slog.New(logging.NewContextHandler(handler)), addrCh
}

// StartServer runs the service until ctx is done and returns once it answers /api/healthy.
//
// Pass localhost:0 as the listen address through lookupEnv so that parallel tests get their own port. Server logs
// go to logSink, usually [io.Discard].
func StartServer(ctx context.Context, logSink io.Writer, lookupEnv func(string) (string, bool), run RunFunc) (*Server, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	logger, addrCh := addrLogger(logSink)

	go func() {
		if err := run(ctx, logger, lookupEnv); err != nil {
			cancel(err)
		}
	}()

	var addr string
	select {
	case <-ctx.Done():
		return nil, errors.Wrap(context.Cause(ctx), "server stopped before listening")
	case addr = <-addrCh:
	}

	serverURL := "http://" + addr
	client, err := NewClient(serverURL)
	if err != nil {
		return nil, errors.Wrap(err, "new client")
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		return nil, errors.Wrap(err, "wait for ready")
	}
	return &Server{url: serverURL, client: client}, nil
}

// Client returns a client sharing one cookie jar across calls.
func (s *Server) Client() *Client {
	return s.client
}

func (s *Server) URL() string {
	return s.url
}
