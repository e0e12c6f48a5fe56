package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/gameweek-picks/db/migrations"
	"github.com/riskibarqy/gameweek-picks/internal/platform/logging"
)

func main() {
	_ = godotenv.Load()

	logger := logging.NewJSON(logging.LevelInfo)
	defer func() { _ = logger.Sync() }()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	if err := run(os.Args[1:], logger); err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
			os.Exit(2)
		}
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

func run(args []string, logger *logging.Logger) error {
	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		return fmt.Errorf("DB_URL is required")
	}
	if envBool("DB_DISABLE_PREPARED_BINARY_RESULT") {
		dbURL = withQueryParam(dbURL, "disable_prepared_binary_result", "yes")
	}

	m, source, err := newMigrator(dbURL)
	if err != nil {
		return err
	}
	defer closeMigrator(m, logger)

	cmd := strings.ToLower(strings.TrimSpace(args[0]))
	switch cmd {
	case "up":
		if err := ignoreNoChange(m.Up(), logger); err != nil {
			return err
		}
		logger.Info("migrations applied", "source", source)
	case "down":
		steps, err := parseSteps(args[1:])
		if err != nil {
			return err
		}
		if err := ignoreNoChange(m.Steps(-steps), logger); err != nil {
			return err
		}
		logger.Info("migrations rolled back", "steps", steps)
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("version: none")
			fmt.Println("dirty: false")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		fmt.Printf("version: %d\n", version)
		fmt.Printf("dirty: %t\n", dirty)
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("force requires a version argument")
		}
		version, err := parseVersion(args[1])
		if err != nil {
			return err
		}
		if err := m.Force(version); err != nil {
			return fmt.Errorf("force version %d: %w", version, err)
		}
		logger.Info("migration version forced", "version", version)
	case "goto", "migrate":
		if len(args) < 2 {
			return fmt.Errorf("goto requires a target version argument")
		}
		target, err := parseTarget(args[1])
		if err != nil {
			return err
		}
		if err := ignoreNoChange(m.Migrate(target), logger); err != nil {
			return err
		}
		logger.Info("migrated", "version", target)
	default:
		return errUsage
	}

	return nil
}

// newMigrator reads migrations from MIGRATIONS_DIR when set, otherwise from
// the copies embedded in the binary.
func newMigrator(dbURL string) (*migrate.Migrate, string, error) {
	if dir := strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, "", fmt.Errorf("resolve MIGRATIONS_DIR: %w", err)
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			return nil, "", fmt.Errorf("migration directory %q not found", abs)
		}
		sourceURL := "file://" + filepath.ToSlash(abs)
		m, err := migrate.New(sourceURL, dbURL)
		if err != nil {
			return nil, "", fmt.Errorf("create migrator: %w", err)
		}
		return m, sourceURL, nil
	}

	driver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, "", fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", driver, dbURL)
	if err != nil {
		return nil, "", fmt.Errorf("create migrator: %w", err)
	}
	return m, "embedded", nil
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}

	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0")
	}

	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("version must be >= 0")
	}
	if value > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("version is too large for this platform")
	}

	return int(value), nil
}

func parseTarget(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid target version %q: %w", raw, err)
	}
	return uint(value), nil
}

func ignoreNoChange(err error, logger *logging.Logger) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	return err
}

func closeMigrator(m *migrate.Migrate, logger *logging.Logger) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		logger.Warn("close migration source failed", "error", srcErr)
	}
	if dbErr != nil {
		logger.Warn("close migration db failed", "error", dbErr)
	}
}

func withQueryParam(raw, key, value string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if query.Get(key) != "" {
		return raw
	}
	query.Set(key, value)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func envBool(key string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && value
}

func printUsage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <up|down|version|force|goto> [args]\n", name)
	fmt.Fprintln(os.Stderr, "examples:")
	fmt.Fprintf(os.Stderr, "  %s up\n", name)
	fmt.Fprintf(os.Stderr, "  %s down 1\n", name)
	fmt.Fprintf(os.Stderr, "  %s version\n", name)
	fmt.Fprintf(os.Stderr, "  %s force 1776384000\n", name)
	fmt.Fprintf(os.Stderr, "  %s goto 1776384000\n", name)
}
