package cmd

import (
	"fmt"

	"aggfiles/pkg/logging"
	"aggfiles/pkg/version"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configSearchPath is looked up in the XDG config directories when --config is not given.
const configSearchPath = "agg-files/config.yaml"

// NewRootCmd builds the agg-files command tree. Every call returns
// independent flag and configuration state.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "agg-files [flags] <pattern> [<pattern> ...]",
		Short: "Print the contents of files matching glob patterns",
		Long: `agg-files prints the contents of every file matching the given glob or
regular expression patterns, each preceded by a header naming the file.
Files excluded by .gitignore and .aggignore are skipped. With --url the
files are read from a GitHub tree instead of the local filesystem.

Patterns are globs ('*', '**', '?', '[a-z]', '{a,b}') or regular
expressions prefixed with "re:". Flags may appear before or after patterns.`,
		Example: `  agg-files '*.go'
  agg-files -r 'src/**/*.{rs,toml}'
  agg-files -r --max-lines 1000 --tree '*.py'
  agg-files --url https://github.com/owner/repo/tree/main/pkg -r '*.go'`,
		Version: version.Get().Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(v); err != nil {
				return err
			}
			if err := logging.Setup(v.GetBool("verbose"), version.AppName, version.Version); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAggregate(cmd, v, args)
		},
	}

	flags := rootCmd.Flags()
	flags.BoolP("recursive", "r", false, "Search subdirectories recursively")
	flags.String("url", "", "Read files from a GitHub tree URL instead of the local filesystem")
	flags.BoolP("no-gitignore", "i", false, "Include files excluded by .gitignore")
	flags.Bool("no-custom-ignore", false, "Include files excluded by the .aggignore and to_ignore files")
	flags.StringArrayP("exclude", "e", nil, "Additional ignore pattern in .gitignore syntax (repeatable)")
	flags.String("global-ignore", "", "Path to an additional ignore file")
	flags.Int("max-size-kb", 1024, "Skip files larger than this many KB (0 disables the limit)")
	flags.Int("max-lines", 0, "Skip files with more than this many lines (0 disables the limit)")
	flags.Bool("tree", false, "Print a tree of the matched files before their contents")
	flags.StringP("dir", "C", "", "Resolve local patterns relative to this directory")
	flags.String("github-token", "", "GitHub token used for --url requests")

	persistent := rootCmd.PersistentFlags()
	persistent.String("config", "", "Configuration file (default: $XDG_CONFIG_HOME/"+configSearchPath+")")
	persistent.BoolP("verbose", "V", false, "Enable debug logging")

	// Flag binding only fails for a nil flag.
	_ = v.BindPFlags(flags)
	_ = v.BindPFlags(persistent)

	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// loadConfig reads the configuration file named by --config or, failing
// that, the first agg-files/config.yaml found in the XDG config directories.
// Command-line flags override file values.
func loadConfig(v *viper.Viper) error {
	path := v.GetString("config")
	if path == "" {
		found, err := xdg.SearchConfigFile(configSearchPath)
		if err != nil {
			return nil
		}
		path = found
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return NewRootCmd().Execute()
}
