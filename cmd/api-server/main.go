package main

import (
	"Lumen/config"
	"Lumen/models"
	"Lumen/pkg/database"
	"Lumen/pkg/log"
	"Lumen/pkg/server"
	"Lumen/service"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 命令行各子命令共用的依赖
type App struct {
	Server             *server.AppProvider
	DB                 *gorm.DB
	StreakService      service.IStreakService
	LeaderboardService service.ILeaderboardService
}

func main() {
	cliApp := &cli.App{
		Name:  "api-server",
		Usage: "engagement ledger: points, streaks and leaderboards",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "config file, defaults to configs/config.$APP_ENV.yaml",
				EnvVars: []string{"LUMEN_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start http server, leaderboard job and event consumer",
				Action: func(ctx *cli.Context) error {
					app, err := bootstrap(ctx)
					if err != nil {
						return err
					}
					return server.Run(ctx, app.Server)
				},
			},
			{
				Name:  "migrate",
				Usage: "create or update tables",
				Action: func(ctx *cli.Context) error {
					app, err := bootstrap(ctx)
					if err != nil {
						return err
					}
					if err := database.Migrate(app.DB); err != nil {
						return err
					}
					log.L.Info("migrate done")
					return nil
				},
			},
			{
				Name:  "leaderboard",
				Usage: "leaderboard maintenance",
				Subcommands: []*cli.Command{
					{
						Name:  "generate",
						Usage: "regenerate leaderboard snapshots",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "window", Value: "all", Usage: "daily|weekly|monthly|all"},
						},
						Action: generateLeaderboard,
					},
				},
			},
			{
				Name:  "streak",
				Usage: "streak maintenance",
				Subcommands: []*cli.Command{
					{
						Name:  "recalculate",
						Usage: "rebuild a user's streak from the full log history",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "user", Required: true},
						},
						Action: recalculateStreak,
					},
				},
			},
		},
	}
	if err := cliApp.Run(os.Args); err != nil {
		log.L.Fatal("api-server exited", zap.Error(err))
	}
}

func bootstrap(ctx *cli.Context) (*App, error) {
	path := ctx.String("config")
	if path == "" {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "dev"
		}
		path = fmt.Sprintf("configs/config.%s.yaml", env)
	}
	cfg := config.New(path)
	log.SetDebug(cfg.Debug())

	return InitApp(cfg)
}

func generateLeaderboard(ctx *cli.Context) error {
	app, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	window := ctx.String("window")
	if strings.EqualFold(window, "all") {
		boards, err := app.LeaderboardService.GenerateAll(ctx.Context, time.Time{})
		if err != nil {
			return err
		}
		return printJSON(boards)
	}

	w, err := models.ParseWindowType(window)
	if err != nil {
		return err
	}
	board, err := app.LeaderboardService.Generate(ctx.Context, w, time.Time{})
	if err != nil {
		return err
	}
	return printJSON(board)
}

func recalculateStreak(ctx *cli.Context) error {
	app, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	result, err := app.StreakService.Recalculate(ctx.Context, ctx.String("user"))
	if err != nil {
		return err
	}
	return printJSON(result)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
