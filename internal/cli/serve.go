package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/forzaops/registro/internal/mcp"
)

func newServeCmd() *cobra.Command {
	var transportMode string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio or HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := newApp(ctx, transportMode)
			if err != nil {
				return err
			}
			defer app.Close()

			server := mcp.NewServer(mcp.Config{
				Services: mcp.Services{
					Tasks:     app.Tasks,
					Activity:  app.Activity,
					Backups:   app.Backups,
					Exports:   app.Exports,
					Selection: app.Selection,
				},
				Actions:     app.Activity,
				AuthEnabled: app.Config.Auth.Enabled,
				Credentials: mcp.Credentials{
					Username: app.Config.Auth.Username,
					Passcode: app.Config.Auth.Passcode,
				},
				TransportMode: app.Config.Transport.Mode,
				Logger:        app.Logger,
			})

			if app.Config.Transport.Mode == "stdio" {
				return runStdio(ctx, app, server)
			}
			return runHTTP(app, server)
		},
	}

	cmd.Flags().StringVar(&transportMode, "transport", "", "transport mode: stdio or http (overrides config)")

	return cmd
}

func runStdio(ctx context.Context, app *App, server *sdkmcp.Server) error {
	app.Logger.Info("starting stdio transport", "auth", "disabled")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		app.Logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	return server.Run(ctx, &sdkmcp.StdioTransport{})
}

func runHTTP(app *App, server *sdkmcp.Server) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf("%s:%d", app.Config.Server.Host, app.Config.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	app.Logger.Info("shutting down")
	return httpServer.Shutdown(ctx)
}
