// connect4 is a terminal hot-seat Connect Four game.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lfriedrich2/4gewinnt/internal/service/profile"
	"github.com/lfriedrich2/4gewinnt/internal/tui"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "connect4",
		Usage:   "play Connect Four for two players in the terminal",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "player1",
				Usage: "name of the first player (saved)",
			},
			&cli.StringFlag{
				Name:  "player2",
				Usage: "name of the second player (saved)",
			},
			&cli.BoolFlag{
				Name:  "no-sound",
				Usage: "never ring the terminal bell",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "settings file (default: XDG config dir)",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "connect4:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if path == "" {
		var err error
		if path, err = tui.SettingsPath(); err != nil {
			return fmt.Errorf("locate settings: %w", err)
		}
	}

	store, err := tui.OpenFileStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctrl, err := tui.NewController(ctx, profile.NewService(store, 0), tui.Options{
		Player1: cmd.String("player1"),
		Player2: cmd.String("player2"),
		NoSound: cmd.Bool("no-sound"),
	})
	if err != nil {
		return err
	}

	return tui.Run(ctrl)
}
