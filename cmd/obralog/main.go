// Command obralog is the command-line client for the obralog server.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/obralog/obralog/client"
)

// Build-time variables set via ldflags.
var (
	version   = "0.3.0"
	commit    = ""
	buildDate = ""
)

const defaultURL = "http://localhost:4040"

var (
	apiClient *client.Client
	flagURL   string
	flagKey   string
	flagFmt   string
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("obralog version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("obralog version %s-dev", version)
}

type configFile struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

func main() {
	rootCmd := &cobra.Command{
		Use:     "obralog",
		Short:   "Obralog CLI — field inspection records and meeting minutes",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			var opts []client.Option
			if flagKey != "" {
				opts = append(opts, client.WithAPIKey(flagKey))
			}
			apiClient = client.New(flagURL, opts...)
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "Obralog server URL (env: OBRALOG_URL)")
	rootCmd.PersistentFlags().StringVar(&flagKey, "api-key", "", "API key (env: OBRALOG_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|table|quiet")

	rootCmd.AddCommand(newRecordCmd())
	rootCmd.AddCommand(newSignCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newAuditCmd())
	rootCmd.AddCommand(newStatusCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func resolveConfig() {
	// Flag takes precedence, then env, then config file.
	if flagURL == defaultURL {
		if v := os.Getenv("OBRALOG_URL"); v != "" {
			flagURL = v
		}
	}
	if flagKey == "" {
		flagKey = os.Getenv("OBRALOG_API_KEY")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	data, err := os.ReadFile(filepath.Join(home, ".obralog", "config.yaml"))
	if err != nil {
		return
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return
	}
	if flagURL == defaultURL && cfg.URL != "" {
		flagURL = cfg.URL
	}
	if flagKey == "" && cfg.APIKey != "" {
		flagKey = cfg.APIKey
	}
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}
