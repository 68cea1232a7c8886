package fitquest

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saadjs/fitquest/internal/app"
	"github.com/saadjs/fitquest/internal/config"
	"github.com/saadjs/fitquest/internal/db"
	"github.com/saadjs/fitquest/internal/logger"
	"github.com/saadjs/fitquest/internal/service"
	"github.com/saadjs/fitquest/internal/tracker"
)

// now is swapped in tests.
var now = time.Now

// env is everything a command needs besides the store.
type env struct {
	DB     *sql.DB
	Config *config.Config
	Log    *zap.Logger
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	return app.DefaultDBPath()
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return app.DefaultConfigPath()
}

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

// withEnv opens the database and layers stored overrides over the file and
// environment configuration before building the logger.
func withEnv(cmd *cobra.Command, run func(*env) error) error {
	return withDB(func(sqldb *sql.DB) error {
		cfgPath, err := resolveConfigPath()
		if err != nil {
			return err
		}
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		overrides, err := service.UserSettings(sqldb)
		if err != nil {
			return err
		}
		if err := cfg.Apply(overrides); err != nil {
			return err
		}

		logFile := cfg.Log.File
		if logFile == "" {
			path, err := resolveDBPath()
			if err != nil {
				return err
			}
			logFile = filepath.Join(filepath.Dir(path), "fitquest.log")
		}
		opts := logger.Options{File: logFile, Level: cfg.Log.Level}
		if verbose {
			opts.Console = cmd.ErrOrStderr()
		}
		log, closeLog, err := logger.New(opts)
		if err != nil {
			return err
		}
		defer closeLog()

		log.Debug("command started", zap.String("command", cmd.CommandPath()))
		return run(&env{DB: sqldb, Config: cfg, Log: log})
	})
}

// trackerOptions announces unlocked badges on the command's output.
func (e *env) trackerOptions(cmd *cobra.Command, extra ...tracker.Notifier) tracker.Options {
	opts := e.Config.TrackerOptions()
	opts.Logger = e.Log
	opts.Now = now
	announce := tracker.NotifierFunc(func(badge string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Badge unlocked: %s\n", badge)
	})
	opts.Notifier = tracker.Notifiers(append([]tracker.Notifier{announce}, extra...)...)
	return opts
}

func openSession(cmd *cobra.Command, e *env, extra ...tracker.Notifier) (*service.Session, error) {
	return service.OpenSession(e.DB, e.trackerOptions(cmd, extra...))
}

// withSession runs a mutating command and persists the store when it
// succeeds. A failed command leaves the database untouched.
func withSession(cmd *cobra.Command, run func(*tracker.Store) error) error {
	return withEnv(cmd, func(e *env) error {
		sess, err := openSession(cmd, e)
		if err != nil {
			return err
		}
		if err := run(sess.Store); err != nil {
			e.Log.Debug("command failed", zap.String("command", cmd.CommandPath()), zap.Error(err))
			return err
		}
		return sess.Commit()
	})
}

// withStore runs a read-only command.
func withStore(cmd *cobra.Command, run func(*tracker.Store, *env) error) error {
	return withEnv(cmd, func(e *env) error {
		sess, err := openSession(cmd, e)
		if err != nil {
			return err
		}
		return run(sess.Store, e)
	})
}

func parseIndexArg(name, value string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s must be >= 0", name)
	}
	return v, nil
}

func parseDateFlag(name, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if _, err := time.ParseInLocation("2006-01-02", value, time.Local); err != nil {
		return "", fmt.Errorf("invalid --%s %q (expected YYYY-MM-DD)", name, value)
	}
	return value, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02")
}
