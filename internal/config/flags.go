package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
)

// legacyDatabaseURIEnv is the storage variable earlier deployments set.
const legacyDatabaseURIEnv = "MONGO_URI"

// Flags are the command-line options. Each one can also be set through its environment variable.
type Flags struct {
	ConfigPath      string `short:"c" long:"config" env:"CONFIG_PATH" description:"path to YAML config file"`
	Port            int    `short:"p" long:"port" env:"PORT" description:"listen port (default: 3000)"`
	DatabaseURI     string `long:"database-uri" env:"DATABASE_URI" description:"postgres connection string (falls back to MONGO_URI)"`
	SequenceBackend string `long:"sequence-backend" env:"SEQUENCE_BACKEND" choice:"postgres" choice:"redis" description:"short code sequence backend"`
	RedisAddr       string `long:"redis-addr" env:"REDIS_ADDR" description:"redis address"`
}

// ParseFlags parses args (without the program name) and the matching environment variables.
func ParseFlags(args []string) (*Flags, error) {
	const op = "config.ParseFlags"

	var f Flags

	parser := flags.NewParser(&f, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if f.DatabaseURI == "" {
		f.DatabaseURI = os.Getenv(legacyDatabaseURIEnv)
	}

	return &f, nil
}

// IsHelp reports whether err was caused by a help request.
func IsHelp(err error) bool {
	var flagsErr *flags.Error
	return errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp
}

// ApplyFlags overrides cfg with every flag that was set.
func (cfg *Config) ApplyFlags(f *Flags) error {
	const op = "config.Config.ApplyFlags"

	if f.Port != 0 {
		cfg.HTTPServer.Port = f.Port
	}
	if f.DatabaseURI != "" {
		cfg.Postgres.URI = f.DatabaseURI
	}
	if f.SequenceBackend != "" {
		cfg.Sequence.Backend = f.SequenceBackend
	}
	if f.RedisAddr != "" {
		cfg.Redis.Addr = f.RedisAddr
	}

	if err := cfg.validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
