package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/coralbricks/mailsight/internal/profile"
	"github.com/coralbricks/mailsight/server/ai"
	"github.com/coralbricks/mailsight/server/answer"
	"github.com/coralbricks/mailsight/server/intent"
	"github.com/coralbricks/mailsight/server/sqlgen"
	"github.com/coralbricks/mailsight/server/timewindow"
	"github.com/coralbricks/mailsight/store"
	"github.com/coralbricks/mailsight/store/db"
)

const version = "0.4.0"

var rootCmd = &cobra.Command{
	Use:   "mailsight",
	Short: "Ask natural-language questions about your email campaign",
	Long: `mailsight answers analytics questions about an email campaign dataset.
It extracts time windows from plain-English questions ("last week",
"since March 1", "between 2024-01-01 and 2024-01-31"), classifies the
metric being asked about, and answers from the campaign store.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("mode", "demo", `mode of the server: "demo", "dev" or "prod"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of the server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", `database driver: "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("dsn", "", "database source name (database connection string)")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("mailsight")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// loadProfile builds the runtime profile from flags and environment.
func loadProfile() (*profile.Profile, error) {
	p := &profile.Profile{
		Mode:    viper.GetString("mode"),
		Addr:    viper.GetString("addr"),
		Port:    viper.GetInt("port"),
		Data:    viper.GetString("data"),
		Driver:  viper.GetString("driver"),
		DSN:     viper.GetString("dsn"),
		Version: version,
	}
	p.FromEnv()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	return p, nil
}

// openStore opens the configured database and runs migrations.
func openStore(cmd *cobra.Command, p *profile.Profile) (*store.Store, error) {
	driver, err := db.NewDBDriver(p)
	if err != nil {
		return nil, fmt.Errorf("failed to create db driver: %w", err)
	}
	st := store.New(driver, p)
	if err := st.Migrate(cmd.Context()); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return st, nil
}

// newAssembler wires the answer pipeline according to the profile. AI stages
// attach only when a key is configured.
func newAssembler(p *profile.Profile, st *store.Store) *answer.Assembler {
	var opts []answer.Option
	if p.IsAIEnabled() {
		provider, err := ai.NewProvider(ai.NewConfigFromProfile(p))
		if err != nil {
			slog.Warn("AI provider unavailable, running rule-based", "error", err)
		} else {
			opts = append(opts, answer.WithLLMClassifier(intent.NewLLMClassifier(provider)))
			opts = append(opts, answer.WithFormatter(answer.NewFormatter(provider)))
			if p.AISQLEnabled {
				opts = append(opts, answer.WithGenerator(sqlgen.NewGenerator(provider)))
			}
		}
	}
	return answer.NewAssembler(timewindow.NewEngine(), st, opts...)
}

func main() {
	logLevel := slog.LevelInfo
	if os.Getenv("MAILSIGHT_DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
