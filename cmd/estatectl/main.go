package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"estate_market/internal/adapters/gateway"
	"estate_market/internal/adapters/observability"
	"estate_market/internal/client/persist"
	"estate_market/internal/client/store"
	"estate_market/internal/shared"
)

type cliConfig struct {
	AppEnv          string `mapstructure:"app_env"`
	APIURL          string `mapstructure:"api_url"`
	AdminPassphrase string `mapstructure:"admin_passphrase"`
	StateFile       string `mapstructure:"state_file"`
	RedisAddr       string `mapstructure:"redis_addr"`
	RedisPassword   string `mapstructure:"redis_password"`
	RedisDB         int    `mapstructure:"redis_db"`
	JSON            bool   `mapstructure:"json"`

	Timeout time.Duration `mapstructure:"-"`
}

var (
	cfg     cliConfig
	logger  zerolog.Logger
	session *store.Store
)

var rootCmd = &cobra.Command{
	Use:   "estatectl",
	Short: "Browse and manage the property marketplace",
	Long: `estatectl is a terminal front-end for the marketplace API.

Anyone can browse listings, keep favorites, compare properties, run the
investment calculator, register interest and book site visits. After
"estatectl login" the lead and site visit pipelines are available too.

Favorites, recently viewed listings and the admin session are kept in
STATE_FILE, or in redis when REDIS_ADDR is set.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := loadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		cfg = c
		logger = observability.NewLogger(cfg.AppEnv, "estatectl").
			Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		return nil
	},
	PersistentPostRunE: func(*cobra.Command, []string) error {
		if session == nil {
			return nil
		}
		err := session.Close()
		session = nil
		return err
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("api-url", "", "marketplace API base URL (env API_URL)")
	f.String("state-file", "", "local state file (env STATE_FILE)")
	f.Duration("timeout", 20*time.Second, "per-request timeout")
	f.Bool("json", false, "print JSON instead of tables")
}

// loadConfig layers flags over env, an optional estatectl.yaml and the
// shared defaults.
func loadConfig(flags *pflag.FlagSet) (cliConfig, error) {
	base := shared.Load()
	v := viper.New()

	v.SetConfigName("estatectl")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Dir(shared.DefaultStateFile()))

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("app_env", base.AppEnv)
	v.SetDefault("api_url", base.APIURL)
	v.SetDefault("admin_passphrase", base.AdminPassphrase)
	v.SetDefault("state_file", base.StateFile)
	v.SetDefault("redis_addr", base.RedisAddr)
	v.SetDefault("redis_password", base.RedisPass)
	v.SetDefault("redis_db", base.RedisDB)

	for key, name := range map[string]string{"api_url": "api-url", "state_file": "state-file", "json": "json"} {
		if fl := flags.Lookup(name); fl != nil {
			if err := v.BindPFlag(key, fl); err != nil {
				return cliConfig{}, eris.Wrapf(err, "bind --%s", name)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return cliConfig{}, eris.Wrap(err, "config: read file")
		}
	}

	var c cliConfig
	if err := v.Unmarshal(&c); err != nil {
		return cliConfig{}, eris.Wrap(err, "config: unmarshal")
	}
	if d, err := flags.GetDuration("timeout"); err == nil {
		c.Timeout = d
	}
	return c, nil
}

// storage picks redis when configured, else the state file.
func storage() persist.Storage {
	if cfg.RedisAddr != "" {
		rc := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		return persist.NewRedisStorage(rc, "estatectl:")
	}
	return persist.NewFileStorage(cfg.StateFile)
}

func newGateway() *gateway.Client {
	return gateway.New(cfg.APIURL, &http.Client{Timeout: cfg.Timeout})
}

// openStore builds the application store on first use. Commands that never
// touch the API skip the initial fetch.
func openStore(ctx context.Context) *store.Store {
	if session == nil {
		if cfg.AdminPassphrase == "" {
			logger.Debug().Msg("ADMIN_PASSPHRASE is empty; admin login disabled")
		}
		session = store.New(ctx, newGateway(), storage(), store.Options{
			Passphrase: cfg.AdminPassphrase,
			Logger:     logger,
		})
	}
	return session
}

// describe adds the server's message to gateway failures.
func describe(err error) string {
	var se *gateway.StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Error() + ": " + se.Message
	}
	return err.Error()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		os.Exit(1)
	}
}
