package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/coralbricks/mailsight/server/router/apiv1"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := loadProfile()
		if err != nil {
			return err
		}
		st, err := openStore(cmd, p)
		if err != nil {
			return err
		}
		defer st.Close()

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.Use(echomw.Recover())

		service := apiv1.NewAPIV1Service(p, st, newAssembler(p, st))
		service.Register(e)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		addr := fmt.Sprintf("%s:%d", p.Addr, p.Port)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			slog.Info("server started", "addr", addr, "mode", p.Mode, "driver", p.Driver)
			if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil {
			return fmt.Errorf("server exited: %w", err)
		}
		slog.Info("server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
