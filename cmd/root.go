// Package cmd provides the root command and CLI setup for xcsift.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ldomaradzki/xcsift-sub001/internal/adapter"
	"github.com/ldomaradzki/xcsift-sub001/internal/coverage"
	"github.com/ldomaradzki/xcsift-sub001/internal/format"
	"github.com/ldomaradzki/xcsift-sub001/internal/parser"
)

var commandRunner adapter.CommandRunner

// Flag storage, bound to viper so config/env values feed the flags.
var (
	formatFlag           string
	coverageFlag         bool
	coveragePathFlag     string
	workingDirFlag       string
	testDurationsFlag    bool
	slowThresholdFlag    float64
	warningsAsErrorsFlag bool
	noWarningDetailsFlag bool
	verboseFlag          bool
	logFileFlag          string
)

func init() {
	configureRootFlags(rootCmd)

	commandRunner = adapter.NewLocalCommandRunner()
}

const rootLongDescription = `xcsift turns the noisy output of xcodebuild and swift build/test
invocations into one structured result for automated consumers.

Pipe the build output in and read the encoded result back:

  xcodebuild test 2>&1 | xcsift
  swift test 2>&1 | xcsift --format compact --coverage

Errors, warnings, linker diagnostics, test outcomes and code coverage are
extracted; unrecognized lines are dropped.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "xcsift",
		Short: "Structure xcodebuild and swift build/test output",
		Long:  rootLongDescription,
		Args:  cobra.NoArgs,
		RunE:  runSift,
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&formatFlag, formatFlagName, "f",
			viper.GetString(formatFlagName),
			"output format: json, compact, github, yaml or pretty",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(formatFlagName), formatFlagName)

	cmd.PersistentFlags().StringVarP(&workingDirFlag, workingDirFlagName, "C", viper.GetString(workingDirFlagName), "project directory searched for coverage artifacts")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(workingDirFlagName), workingDirFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(verboseFlagName), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), verboseFlagName)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)

	cmd.Flags().BoolVar(&coverageFlag, coverageFlagName, viper.GetBool(coverageFlagName), "locate and attach code coverage")
	bindFlagToConfig(cmd.Flags().Lookup(coverageFlagName), coverageFlagName)

	cmd.Flags().StringVar(&coveragePathFlag, coveragePathFlagName, viper.GetString(coveragePathFlagName), "explicit coverage artifact path (.xcresult, .profdata, .profraw or profile directory)")
	bindFlagToConfig(cmd.Flags().Lookup(coveragePathFlagName), coveragePathFlagName)

	cmd.Flags().BoolVar(&testDurationsFlag, testDurationsFlagName, viper.GetBool(testDurationsFlagName), "record per-test durations on failed tests")
	bindFlagToConfig(cmd.Flags().Lookup(testDurationsFlagName), testDurationsFlagName)

	cmd.Flags().Float64Var(&slowThresholdFlag, slowThresholdFlagName, viper.GetFloat64(slowThresholdConfigKey), "seconds above which a test is marked slow")
	bindFlagToConfig(cmd.Flags().Lookup(slowThresholdFlagName), slowThresholdConfigKey)

	cmd.Flags().BoolVar(&warningsAsErrorsFlag, warningsAsErrorsFlagName, viper.GetBool(warningsAsErrorsFlagName), "fail the build on warnings")
	bindFlagToConfig(cmd.Flags().Lookup(warningsAsErrorsFlagName), warningsAsErrorsFlagName)

	cmd.Flags().BoolVar(&noWarningDetailsFlag, noWarningDetailsFlagName, viper.GetBool(noWarningDetailsFlagName), "suppress the per-warning detail list")
	bindFlagToConfig(cmd.Flags().Lookup(noWarningDetailsFlagName), noWarningDetailsFlagName)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

func runSift(cmd *cobra.Command, _ []string) error {
	configureLogger(viper.GetString(logFilenameKey), viper.GetBool(verboseFlagName))

	input, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	result := newParser().Parse(string(input))

	if viper.GetBool(coverageFlagName) {
		service := coverage.NewService(viper.GetString(workingDirFlagName), commandRunner, cmd.ErrOrStderr())

		cov, covErr := service.Collect(cmd.Context(), result.Target, viper.GetString(coveragePathFlagName))
		if covErr != nil {
			return covErr
		}

		parser.MergeCoverage(result, cov)
	}

	formatter, err := format.New(viper.GetString(formatFlagName), formatOptions())
	if err != nil {
		return err
	}

	rendered, err := formatter.Format(result)
	if err != nil {
		return fmt.Errorf("render result: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), rendered)

	return nil
}

func newParser() *parser.Parser {
	return parser.New(parser.Options{
		TrackDurations:   viper.GetBool(testDurationsFlagName),
		WarningsAsErrors: viper.GetBool(warningsAsErrorsFlagName),
	})
}

func formatOptions() format.Options {
	return format.Options{
		WarningDetails: !viper.GetBool(noWarningDetailsFlagName),
		SlowThreshold:  viper.GetFloat64(slowThresholdConfigKey),
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
