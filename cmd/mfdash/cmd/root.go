package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/youssefsiam38/mfdash"
)

// Flag names. Each is bound to the viper key of the same config field.
const (
	flagConfig          = "config"
	flagEndpoint        = "frontend-endpoint"
	flagListenAddr      = "listen-addr"
	flagMetricsAddr     = "metrics-addr"
	flagBasePath        = "base-path"
	flagReadOnly        = "read-only"
	flagRefreshInterval = "refresh-interval"
	flagPageSize        = "page-size"
	flagRequestTimeout  = "request-timeout"
	flagLogLevel        = "log-level"
	flagLogFormat       = "log-format"
)

var flagKeys = map[string]string{
	flagEndpoint:        "frontend_endpoint",
	flagListenAddr:      "listen_addr",
	flagMetricsAddr:     "metrics_addr",
	flagBasePath:        "base_path",
	flagReadOnly:        "read_only",
	flagRefreshInterval: "refresh_interval",
	flagPageSize:        "page_size",
	flagRequestTimeout:  "request_timeout",
	flagLogLevel:        "logging.level",
	flagLogFormat:       "logging.format",
}

// RootCmd is the root Cobra command that gets called from the main func.
// All other sub-commands should be registered here.
func RootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:          "mfdash",
		Short:        "mfdash serves the Model Factory dashboard.",
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	addConfigFlags(flags, mfdash.DefaultConfig())
	if err := bindConfigFlags(v, flags); err != nil {
		panic(err)
	}

	load := func(cmd *cobra.Command) (*mfdash.Config, error) {
		configFile, err := cmd.Flags().GetString(flagConfig)
		if err != nil {
			return nil, err
		}
		return mfdash.Load(v, configFile)
	}

	cmd.AddCommand(
		serveCmd(load),
		routesCmd(),
		pingCmd(load),
	)

	return cmd
}

type loadFunc func(cmd *cobra.Command) (*mfdash.Config, error)

// addConfigFlags defines one flag per config field, defaulting to def.
func addConfigFlags(flags *pflag.FlagSet, def *mfdash.Config) {
	flags.String(flagConfig, "", "Config file (default: ./mfdash.yaml or /etc/mfdash/mfdash.yaml)")
	flags.String(flagEndpoint, def.Endpoint, "Model Factory frontend service URL")
	flags.String(flagListenAddr, def.ListenAddr, "Address the dashboard listens on")
	flags.String(flagMetricsAddr, def.MetricsAddr, "Address serving /metrics, empty to disable")
	flags.String(flagBasePath, def.BasePath, "URL prefix the dashboard is mounted under")
	flags.Bool(flagReadOnly, def.ReadOnly, "Disable tagging, trigger toggles and model actions")
	flags.Duration(flagRefreshInterval, def.RefreshInterval, "Auto-refresh period of the list pages")
	flags.Int(flagPageSize, def.PageSize, "Jobs per page")
	flags.Duration(flagRequestTimeout, def.RequestTimeout, "Timeout of each backend call")
	flags.String(flagLogLevel, def.Logging.Level, "Log level: debug, info, warn or error")
	flags.String(flagLogFormat, def.Logging.Format, "Log format: text or json")
}

// bindConfigFlags makes set flags override the config file and environment.
func bindConfigFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}
