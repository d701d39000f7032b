// Package main provides the entry point for the data protection subsystem
// with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/FatihBerkayBahceci/eye-book-sub002/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "eye-book data protection and audit subsystem",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the operations API and metrics servers",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "init-key",
				Usage: "Ensure the first active data key exists",
				Flags: []cli.Flag{
					formatFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunInitKey(ctx, cmd.String("format"))
				},
			},
			{
				Name:  "rotate-keys",
				Usage: "Rotate the data key and re-encrypt all PHI field values",
				Flags: []cli.Flag{
					formatFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunRotateKeys(ctx, cmd.String("format"))
				},
			},
			{
				Name:  "purge-retired-keys",
				Usage: "Delete retired data keys that reference no data",
				Flags: []cli.Flag{
					formatFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunPurgeRetiredKeys(ctx, cmd.String("format"))
				},
			},
			{
				Name:  "clean-audit-logs",
				Usage: "Delete audit events older than the retention period",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "days",
						Aliases: []string{"d"},
						Value:   0,
						Usage:   "Override the configured retention period in days",
					},
					formatFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCleanAuditLogs(ctx, int(cmd.Int("days")), cmd.String("format"))
				},
			},
			{
				Name:  "verify-audit-event",
				Usage: "Recompute the integrity signature of a stored audit event",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Aliases:  []string{"i"},
						Required: true,
						Usage:    "Audit event ID (UUID)",
					},
					formatFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunVerifyAuditEvent(ctx, cmd.String("id"), cmd.String("format"))
				},
			},
			{
				Name:  "clear-blacklist",
				Usage: "Remove an actor from the permanent blacklist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "actor",
						Aliases:  []string{"a"},
						Required: true,
						Usage:    "Actor identifier to clear",
					},
					formatFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunClearBlacklist(ctx, cmd.String("actor"), cmd.String("format"))
				},
			},
			{
				Name:  "clean-lockouts",
				Usage: "Remove expired lockout records",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "days",
						Aliases: []string{"d"},
						Value:   30,
						Usage:   "Remove expired records idle for more than this many days",
					},
					formatFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCleanLockouts(ctx, int(cmd.Int("days")), cmd.String("format"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}
