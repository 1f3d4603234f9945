package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/devicereport/internal/cliconfig"
	"github.com/bft-labs/devicereport/pkg/devicereport"
	logAdapter "github.com/bft-labs/devicereport/pkg/log"
)

const helpDescription = `
Capture this host's device profile and public IP geolocation and post it
as a single embed message to a Discord-compatible webhook.

Highlights:
  - One linear run: IP lookup, geo lookup, device attributes, one POST.
  - Lookups that fail fall back to defaults; delivery is never retried.
  - Configure via file (TOML or YAML), DEVICEREPORT_* env, or flags.
  - Optional repeat mode on an interval or on config file changes.
`

var longHelp = strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  devicereport --webhook-url https://discord.com/api/webhooks/<id>/<token>
  devicereport --dry-run --label rack-7
  devicereport --config $HOME/.devicereport/config.yaml --interval 1h --watch
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// loadConfig layers the config file, DEVICEREPORT_* env and flags over
// base, in increasing precedence, and validates the result.
func loadConfig(base cliconfig.Config, cfgFile string, changed map[string]bool) (cliconfig.Config, error) {
	cfg := base
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
			return cfg, err
		}
	}
	if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger(false)

	root := &cobra.Command{
		Use:           "devicereport",
		Short:         "Post this host's device profile and IP geolocation to a webhook",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			// Flag values are already in cfg; keep them as the base for reloads.
			base := cfg
			current, err := loadConfig(base, cfgFile, changed)
			if err != nil {
				return err
			}

			if current.Debug {
				log = log.Level(zerolog.DebugLevel)
			}
			log.Info().Interface("config", current.Redacted()).Msg("configuration")

			logger := logAdapter.NewZerologAdapterWithLogger(log)
			opts := []devicereport.Option{
				devicereport.WithLogger(logger),
				devicereport.WithVersion(getVersion()),
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				select {
				case <-sigCh:
					log.Info().Msg("received signal, stopping...")
					cancel()
				case <-ctx.Done():
				}
			}()

			first := true
			load := func() (*devicereport.Reporter, error) {
				c := current
				if !first {
					reloaded, err := loadConfig(base, cfgFile, changed)
					if err != nil {
						return nil, err
					}
					c = reloaded
				}
				first = false
				return devicereport.New(c, opts...)
			}

			wc := devicereport.WatchConfig{
				Interval: current.Interval,
				MinGap:   current.MinGap,
			}
			if current.Watch {
				wc.ConfigPath = cfgFile
			}
			return devicereport.Watch(ctx, wc, load, logger)
		},
	}

	flags := root.Flags()
	flags.StringVar(&cfgPath, "config", "", "path to config file, .toml or .yaml (default: $HOME/.devicereport/config.toml)")
	flags.StringVar(&cfg.WebhookURL, "webhook-url", cfg.WebhookURL, "webhook endpoint receiving the report")
	flags.StringVar(&cfg.IPLookupURL, "ip-lookup-url", cfg.IPLookupURL, "public IP lookup endpoint returning {\"ip\": ...}")
	flags.StringVar(&cfg.GeoLookupURL, "geo-lookup-url", cfg.GeoLookupURL, "geo lookup URL template, {ip} is replaced by the address")

	flags.StringVar(&cfg.Username, "username", cfg.Username, "webhook display name")
	flags.StringVar(&cfg.AvatarURL, "avatar-url", cfg.AvatarURL, "webhook avatar image URL")
	flags.StringVar(&cfg.Title, "title", cfg.Title, "embed title")
	flags.StringVar(&cfg.Footer, "footer", cfg.Footer, "embed footer text")
	flags.IntVar(&cfg.Color, "color", cfg.Color, "embed color as integer (0x8A2BE2 accepted)")

	flags.StringVar(&cfg.Label, "label", cfg.Label, "operator label attached to the report")
	flags.StringVar(&cfg.Iface, "iface", cfg.Iface, "network interface for network hints (default: default route)")

	flags.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout for each request")
	flags.DurationVar(&cfg.Interval, "interval", cfg.Interval, "repeat the report on this interval (0 = once)")
	flags.DurationVar(&cfg.MinGap, "min-gap", cfg.MinGap, "minimum spacing between two reports in repeat mode")
	flags.BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload config and report again when the config file changes")
	flags.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "print the payload to stdout instead of posting it")
	flags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("devicereport")
		os.Exit(1)
	}
}
