package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mcoot/linkplay/internal/factory"
)

// Config holds server flags
type Config struct {
	bind             string
	port             int
	storage          string
	redisURL         string
	mediaRoot        string
	publicURL        string
	rotationInterval time.Duration
	sessionDuration  time.Duration
	owner            string
	verbose          bool
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	switch c.storage {
	case factory.StorageTypeMemory:
	case factory.StorageTypeRedis:
		if c.redisURL == "" {
			return errors.New("--redis-url is required when --storage=redis")
		}
	default:
		return fmt.Errorf("invalid storage (must be memory or redis): %s", c.storage)
	}
	if c.rotationInterval < time.Second {
		return fmt.Errorf("rotation interval too short: %s", c.rotationInterval)
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("LINKPLAY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "linkplay-server",
		Short:         "Rotating short links for shared media, plus tic-tac-toe.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: LINKPLAY_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: LINKPLAY_PORT)")
	fs.StringVar(&cfg.storage, "storage", factory.StorageTypeMemory, "storage backend, memory or redis (env: LINKPLAY_STORAGE)")
	fs.StringVar(&cfg.redisURL, "redis-url", "", "redis connection url (env: LINKPLAY_REDIS_URL)")
	fs.StringVar(&cfg.mediaRoot, "media-root", "media", "directory holding shared/ and users/ (env: LINKPLAY_MEDIA_ROOT)")
	fs.StringVar(&cfg.publicURL, "public-url", "", "scheme and host used in generated links (env: LINKPLAY_PUBLIC_URL)")
	fs.DurationVar(&cfg.rotationInterval, "rotation-interval", 10*time.Minute, "lifetime of a short link epoch (env: LINKPLAY_ROTATION_INTERVAL)")
	fs.DurationVar(&cfg.sessionDuration, "session-duration", 24*time.Hour, "lifetime of a login session (env: LINKPLAY_SESSION_DURATION)")
	fs.StringVar(&cfg.owner, "owner", "", "username allowed to change embed defaults (env: LINKPLAY_OWNER)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "log at debug level (env: LINKPLAY_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
