// Command migrate manages the PostgreSQL schema of the back office.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// env carries what a command needs; migrator is nil for source-only commands
type env struct {
	ctx      context.Context
	log      *zap.Logger
	dir      string
	args     []string
	migrator *migration.Migrator
}

type command struct {
	usage   string
	summary string
	needsDB bool
	minArgs int
	run     func(e env) error
}

var commands = map[string]command{
	"up": {
		usage: "up", summary: "Apply all pending migrations", needsDB: true,
		run: func(e env) error { return e.migrator.Up(e.ctx) },
	},
	"down": {
		usage: "down", summary: "Roll back all migrations", needsDB: true,
		run: func(e env) error { return e.migrator.Down(e.ctx) },
	},
	"step": {
		usage: "step <n>", summary: "Apply n migrations, negative n rolls back", needsDB: true, minArgs: 1,
		run: func(e env) error {
			n, err := strconv.Atoi(e.args[0])
			if err != nil || n == 0 {
				return fmt.Errorf("invalid step count %q", e.args[0])
			}
			return e.migrator.Steps(e.ctx, n)
		},
	},
	"version": {
		usage: "version", summary: "Show the applied schema version", needsDB: true,
		run: func(e env) error {
			status, err := e.migrator.Status()
			if err != nil {
				return err
			}
			e.log.Info("Schema status", zap.Stringer("status", status))
			return nil
		},
	},
	"force": {
		usage: "force <version>", summary: "Mark a version as applied after a manual repair", needsDB: true, minArgs: 1,
		run: func(e env) error {
			version, err := strconv.Atoi(e.args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", e.args[0])
			}
			return e.migrator.Force(version)
		},
	},
	"create": {
		usage: "create <name> [description]", summary: "Write the next numbered up/down pair", minArgs: 1,
		run: func(e env) error {
			description := ""
			if len(e.args) > 1 {
				description = e.args[1]
			}
			mf, err := migration.CreateMigration(e.dir, e.args[0], description)
			if err != nil {
				return err
			}
			e.log.Info("Migration created",
				zap.String("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
			return nil
		},
	},
	"list": {
		usage: "list", summary: "List the migrations in the source directory",
		run: func(e env) error {
			names, err := migration.ListMigrations(e.dir)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			e.log.Info("Migrations listed", zap.Int("count", len(names)))
			return nil
		},
	},
}

func main() {
	path := flag.String("path", "", "Read migrations from this directory instead of the embedded set")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}
	cmd, ok := commands[args[0]]
	if !ok || len(args)-1 < cmd.minArgs {
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(logger.Config{
		Level:      *logLevel,
		Format:     "console",
		TimeFormat: time.DateTime,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := env{ctx: ctx, log: log, dir: sourceDir(*path), args: args[1:]}
	if cmd.needsDB {
		m, closeDB, err := openMigrator(*path, log)
		if err != nil {
			log.Fatal("Failed to open migrator", zap.Error(err))
		}
		defer closeDB()
		e.migrator = m
	}

	if err := cmd.run(e); err != nil {
		log.Error("Migration command failed", zap.String("command", args[0]), zap.Error(err))
		stop()
		os.Exit(1)
	}
}

// openMigrator uses the embedded migrations unless path points at a
// directory on disk.
func openMigrator(path string, log *zap.Logger) (*migration.Migrator, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	if cfg.Database.Driver != "postgres" {
		return nil, nil, errors.New("SQL migrations target postgres; sqlite databases are migrated by the server on start")
	}

	if path != "" {
		m, err := migration.NewFromPath(cfg.Database.DSN(), sourceDir(path), log)
		if err != nil {
			return nil, nil, err
		}
		return m, func() { _ = m.Close() }, nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	m, err := migration.New(db, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	// closing the migrator closes db
	return m, func() { _ = m.Close() }, nil
}

// sourceDir resolves the directory used by create, list and -path
func sourceDir(path string) string {
	if path == "" {
		path = "migrations"
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func printUsage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "Usage: migrate [flags] <command> [arguments]")
	fmt.Fprintln(out, "\nCommands:")
	for _, name := range names {
		fmt.Fprintf(out, "  %-28s %s\n", commands[name].usage, commands[name].summary)
	}
	fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
	fmt.Fprintln(out, "\nThe database comes from ERP_DATABASE_* variables, e.g. ERP_DATABASE_HOST and ERP_DATABASE_DBNAME.")
}
