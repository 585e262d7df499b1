package cmd

import (
	"fmt"

	"aggfiles/pkg/aggregate"
	"aggfiles/pkg/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// defaultRemotePattern selects every file when --url is given without patterns.
const defaultRemotePattern = "*"

// argumentsFromConfig resolves the aggregation arguments from flags, the
// config file and the positional patterns.
func argumentsFromConfig(v *viper.Viper, patterns []string) *aggregate.Arguments {
	args := &aggregate.Arguments{
		Patterns:         patterns,
		Recursive:        v.GetBool("recursive"),
		URL:              v.GetString("url"),
		Dir:              v.GetString("dir"),
		NoGitignore:      v.GetBool("no-gitignore"),
		NoCustomIgnore:   v.GetBool("no-custom-ignore"),
		GlobalIgnoreFile: v.GetString("global-ignore"),
		IgnorePatterns:   v.GetStringSlice("exclude"),
		MaxFileSizeKB:    v.GetInt("max-size-kb"),
		MaxLines:         v.GetInt("max-lines"),
		Tree:             v.GetBool("tree"),
		GitHubToken:      v.GetString("github-token"),
	}
	if len(args.Patterns) == 0 && args.URL != "" {
		args.Patterns = []string{defaultRemotePattern}
	}
	return args
}

// runAggregate validates the invocation and runs the aggregation, writing
// file blocks to the command's output.
func runAggregate(cmd *cobra.Command, v *viper.Viper, patterns []string) error {
	args := argumentsFromConfig(v, patterns)
	if len(args.Patterns) == 0 {
		return aggregate.ErrNoPatterns
	}
	if args.MaxFileSizeKB < 0 || args.MaxLines < 0 {
		return fmt.Errorf("--max-size-kb and --max-lines must not be negative")
	}

	// Past argument validation a usage dump no longer helps.
	cmd.SilenceUsage = true

	logger := logging.Logger
	logger.Debug("Resolved arguments",
		zap.Strings("patterns", args.Patterns),
		zap.Bool("recursive", args.Recursive),
		zap.String("url", args.URL),
		zap.Strings("exclude", args.IgnorePatterns))

	summary, err := aggregate.Run(cmd.Context(), args, cmd.OutOrStdout(), logger)
	if err != nil {
		return err
	}
	if summary.Matched == 0 {
		cmd.PrintErrln("No files matched the supplied patterns.")
	}
	return nil
}
