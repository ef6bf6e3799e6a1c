package cli

import (
	"fmt"
	"log/slog"

	"github.com/0xalexb/yamlcase"
	"github.com/0xalexb/yamlcase/codec"
	"github.com/0xalexb/yamlcase/config"
	"github.com/0xalexb/yamlcase/docpath"
	"github.com/0xalexb/yamlcase/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const longDesc = `yamlcase edits YAML documents by colon-separated paths.

A path such as servers:0:port walks mappings by key and sequences by index.
Changes come from -p/-V pairs on the command line or from a changes file:
either a flat mapping of paths to values, or a batch whose top-level "cases"
list produces one output document per case.

Batch output goes to <output>/<case>/output/<output_type>.yaml, with the case
record stored next to it under config/. Without --output results are printed.`

// state is shared by the commands of one tree.
type state struct {
	v        *viper.Viper
	settings config.Settings
	logger   *slog.Logger
	run      runFlags
}

// NewRootCmd returns the yamlcase command with its subcommands.
func NewRootCmd() *cobra.Command {
	st := &state{v: newViper()}

	cmd := &cobra.Command{
		Use:           "yamlcase [input-file]",
		Short:         "Apply path overrides and case batches to YAML documents",
		Long:          longDesc,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       yamlcase.Version,
		PersistentPreRunE: func(cc *cobra.Command, _ []string) error {
			return st.setup(cc)
		},
		RunE: func(cc *cobra.Command, args []string) error {
			return st.execute(cc, args)
		},
	}
	cmd.SetVersionTemplate(yamlcase.VersionString() + "\n")

	persistent := cmd.PersistentFlags()
	persistent.String(keyConfig, "", "Read settings from this YAML file")
	persistent.String(keyConfigPath, "", "Colon-separated section of the settings file, e.g. tools:yamlcase")
	persistent.String(keyLogLevel, config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	persistent.String(keyLogFormat, config.DefaultLogFormat,
		fmt.Sprintf("Log format (%s, %s)", logging.FormatText, logging.FormatJSON))
	persistent.String(keyPolicy, docpath.PolicyNumeric,
		fmt.Sprintf("How numeric path segments are read (%s, %s)", docpath.PolicyNumeric, docpath.PolicyKeys))
	persistent.Bool(keyFresh, false, "Start every case from the input document instead of the previous case")
	persistent.Int(keyIndent, codec.DefaultIndentWidth, "Indentation width of written YAML")
	persistent.Bool(keyIndentSequence, false, "Indent sequence items below their parent key")
	persistent.Bool(keySortKeys, false, "Write mapping keys in sorted order")
	persistent.Bool(keyStripComments, false, "Drop comments from written YAML")

	bindFlags(st.v, persistent,
		keyConfig, keyConfigPath, keyLogLevel, keyLogFormat, keyPolicy, keyFresh,
		keyIndent, keyIndentSequence, keySortKeys, keyStripComments)

	st.run.register(cmd.Flags())

	cmd.AddCommand(newServeCmd(st))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setup resolves settings and installs the logger for every command.
func (st *state) setup(cmd *cobra.Command) error {
	settings, err := loadSettings(st.v)
	if err != nil {
		return err
	}

	st.settings = settings
	st.logger = logging.NewLogger(settings.Log, cmd.ErrOrStderr())
	slog.SetDefault(st.logger)

	st.logger.Debug("settings resolved",
		slog.String("policy", settings.Policy),
		slog.Bool("fresh", settings.Fresh),
		slog.Int("indent", settings.Codec.IndentWidth),
		slog.Bool("preserve_order", settings.Codec.PreserveOrder),
		slog.Bool("preserve_comments", settings.Codec.PreserveComments),
	)

	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), yamlcase.VersionString())

			return err //nolint:wrapcheck
		},
	}
}
