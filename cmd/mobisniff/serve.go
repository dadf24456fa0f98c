package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/samcharles93/mobisniff/internal/api"
	"github.com/samcharles93/mobisniff/internal/logger"
	"github.com/samcharles93/mobisniff/internal/unpack"
	"github.com/urfave/cli/v3"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		maxUpload   int64
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the classification and batch REST API",
		Flags: append(engineFlags(), workersFlag(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.Int64Flag{
				Name:        "max-upload",
				Usage:       "largest accepted upload in bytes",
				Value:       api.DefaultMaxUpload,
				Destination: &maxUpload,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output directory for extraction batches that name none",
				Destination: &outDir,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyServeConfig(cmd, appConfig, &addr)
			opts, err := unpackOptions()
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			if outDir == "" && appConfig.AlwaysUseUnpackFolder {
				outDir = appConfig.UnpackFolder
			}

			server := api.NewServer(api.NewBatchStore(), api.Config{
				MaxUploadBytes: maxUpload,
				Workers:        workers,
				Options:        opts,
				Unpacker:       unpack.NewCommandEngine(engineCmd, log),
				OutDir:         outDir,
				Log:            log,
			})
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", addr)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
