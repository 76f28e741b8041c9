package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/yigit/alumnet/internal/app/feed"
	"github.com/yigit/alumnet/internal/app/models"
	"github.com/yigit/alumnet/internal/app/models/dto"
	"github.com/yigit/alumnet/internal/app/session"
	"github.com/yigit/alumnet/internal/bootstrap"
	"github.com/yigit/alumnet/internal/pkg/logger"
	"github.com/yigit/alumnet/internal/server"
)

func newApp() *cli.App {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Value:   "configs/config.yaml",
		Usage:   "YAML configuration file",
		EnvVars: []string{"ALUMNET_CONFIG"},
	}

	return &cli.App{
		Name:  "alumnet",
		Usage: "Dashboard feed and follow gateway for the alumni portal",
		Description: `Serves the merged dashboard feed and the follow, unfollow and
		conversation actions on top of the portal's content, follow and
		messaging services.

		Flags can be set via environment variables, e.g.:

		--config => ALUMNET_CONFIG=configs/config.yaml
		`,
		Flags: []cli.Flag{configFlag},
		Commands: []*cli.Command{
			serveCmd(configFlag),
			feedCmd(configFlag),
		},
		// Serve when no command is given
		Action: func(ctx *cli.Context) error {
			return serve(ctx.String("config"))
		},
	}
}

func serveCmd(configFlag cli.Flag) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP gateway",
		Flags: []cli.Flag{configFlag},
		Action: func(ctx *cli.Context) error {
			return serve(ctx.String("config"))
		},
	}
}

func serve(configPath string) error {
	srv, err := server.NewServer(configPath)
	if err != nil {
		return err
	}

	if err := srv.Run(); err != nil {
		return err
	}

	logger.Info().Msg("Application finished gracefully.")
	return nil
}

func feedCmd(configFlag cli.Flag) *cli.Command {
	return &cli.Command{
		Name:  "feed",
		Usage: "Print the aggregated feed as JSON",
		Description: `Fetches jobs, events and posts from the configured content
		source, merges them newest first and prints the entries of one
		category. Useful for comparing the feed against a known snapshot.`,
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{
				Name:    "category",
				Value:   string(feed.CategoryAll),
				Usage:   "All, Jobs, Events or Posts",
				EnvVars: []string{"ALUMNET_FEED_CATEGORY"},
			},
			&cli.StringFlag{
				Name:  "author",
				Usage: "Only content by this member",
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "Bearer token forwarded to the content service",
				EnvVars: []string{"ALUMNET_TOKEN"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 30 * time.Second,
				Usage: "Overall timeout for the fetch",
			},
		},
		Action: func(ctx *cli.Context) error {
			category, err := feed.ParseCategory(ctx.String("category"))
			if err != nil {
				return err
			}

			cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(ctx.String("config"))
			if err != nil {
				return err
			}
			deps, err := bootstrap.BuildDependencies(cfg, lgr)
			if err != nil {
				return err
			}
			defer deps.Close()

			fetchCtx, cancel := context.WithTimeout(ctx.Context, ctx.Duration("timeout"))
			defer cancel()

			sess := session.Session{
				Viewer: models.User{ID: "cli", Role: models.RoleAdmin},
				Token:  ctx.String("token"),
			}
			entries, err := deps.FeedService.Aggregate(fetchCtx, sess, category, ctx.String("author"))
			if err != nil {
				return fmt.Errorf("failed to aggregate feed: %w", err)
			}
			return writeEntries(ctx.App.Writer, entries)
		},
	}
}

func writeEntries(w io.Writer, entries []feed.Entry) error {
	out := make([]dto.FeedEntryResponse, 0, len(entries))
	for _, e := range entries {
		if resp, ok := dto.FromFeedEntry(e); ok {
			out = append(out, resp)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
