package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go429/internal/app"
	"go429/internal/arinc429"
	"go429/internal/simvar"
	"go429/internal/trace"
)

// options shared by the subcommands
type options struct {
	config     app.Config
	configPath string
	family     string
	output     string
	watches    []string
}

func newRootCmd() *cobra.Command {
	opts := &options{config: app.DefaultConfig()}

	rootCmd := &cobra.Command{
		Use:   "go429",
		Short: "ARINC 429 word encoder, decoder and bus monitor",
		Long: `ARINC 429 word encoder, decoder and bus monitor.

Decodes raw 32-bit ARINC 429 words into label, SDI, data, SSM and parity,
builds words from fields with odd parity, reads and writes words held in a
named-variable store, and traces watched variables to daily rotated logs.

Example usage:
  go429 decode --family bnr 2441888944
  go429 encode --family bcd --label 0o201 --value 0x25786
  go429 var get --store vars.toml L:A32NX_ADIRS_IR_1_LATITUDE
  go429 monitor --watch L:A32NX_ADIRS_IR_1_LATITUDE=bnr --interval 1s`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.loadConfigFile(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.config.ShowVersion {
				app.ShowVersion(cmd.OutOrStdout())
				return nil
			}
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "TOML configuration file")
	flags.BoolVarP(&opts.config.Verbose, "verbose", "v", false, "Verbose logging")
	flags.StringVar(&opts.config.StorePath, "store", app.DefaultStorePath, "Variable store file")
	rootCmd.Flags().BoolVar(&opts.config.ShowVersion, "version", false, "Show version information")

	rootCmd.AddCommand(
		newDecodeCmd(opts),
		newEncodeCmd(opts),
		newVarCmd(opts),
		newMonitorCmd(opts),
	)

	return rootCmd
}

// loadConfigFile applies the config file, keeping any flag set explicitly.
func (o *options) loadConfigFile(cmd *cobra.Command) error {
	if o.configPath == "" {
		return nil
	}

	fromFile := app.DefaultConfig()
	if err := app.LoadConfig(o.configPath, &fromFile); err != nil {
		return err
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if !changed("store") {
		o.config.StorePath = fromFile.StorePath
	}
	if !changed("verbose") {
		o.config.Verbose = fromFile.Verbose
	}
	if !changed("log-dir") {
		o.config.LogDir = fromFile.LogDir
	}
	if !changed("utc") {
		o.config.LogRotateUTC = fromFile.LogRotateUTC
	}
	if !changed("interval") {
		o.config.Interval = fromFile.Interval
	}
	if !changed("keep-days") {
		o.config.KeepDays = fromFile.KeepDays
	}
	o.config.Watches = fromFile.Watches

	return nil
}

func (o *options) logger(cmd *cobra.Command) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	if o.config.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
	return logger
}

func (o *options) parsedFamily() (arinc429.Family, error) {
	return arinc429.ParseFamily(o.family)
}

func addReportFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.family, "family", "f", "discrete", "Word family: discrete, bnr or bcd")
	cmd.Flags().StringVarP(&opts.output, "output", "o", trace.FormatText, "Output format: text, json or yaml")
}

func newDecodeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode RAW...",
		Short: "Decode raw 32-bit words",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := opts.parsedFamily()
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			records := make([]trace.Record, 0, len(args))
			for _, arg := range args {
				raw, err := parseUint(arg, 32)
				if err != nil {
					return fmt.Errorf("raw word %q: %w", arg, err)
				}
				w := arinc429.Decode(uint32(raw))
				records = append(records, trace.NewRecord("", family, &w, now))
			}

			return trace.WriteReport(cmd.OutOrStdout(), opts.output, records)
		},
	}
	addReportFlags(cmd, opts)
	return cmd
}

type encodeFlags struct {
	label  string
	sdi    string
	value  string
	ssm    string
	strict bool
}

func (f encodeFlags) build() (arinc429.Word, error) {
	fields := make([]uint32, 4)
	for i, s := range []string{f.label, f.sdi, f.value, f.ssm} {
		v, err := parseUint(s, 32)
		if err != nil {
			return arinc429.Word{}, fmt.Errorf("field %q: %w", s, err)
		}
		fields[i] = uint32(v)
	}

	if f.strict {
		return arinc429.NewWordStrict(fields[0], fields[1], fields[2], fields[3])
	}
	return arinc429.NewWord(fields[0], fields[1], fields[2], fields[3]), nil
}

func addEncodeFlags(cmd *cobra.Command, f *encodeFlags) {
	cmd.Flags().StringVar(&f.label, "label", "0", "Label (0o prefix for octal, 0x for hex)")
	cmd.Flags().StringVar(&f.sdi, "sdi", "0", "Source/destination identifier")
	cmd.Flags().StringVar(&f.value, "value", "0", "19-bit data field")
	cmd.Flags().StringVar(&f.ssm, "ssm", "0", "Sign/status matrix, raw 2-bit value")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Reject fields wider than their bit width instead of truncating")
}

func newEncodeCmd(opts *options) *cobra.Command {
	var fields encodeFlags

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Build a word from its fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := opts.parsedFamily()
			if err != nil {
				return err
			}

			w, err := fields.build()
			if err != nil {
				return err
			}

			record := trace.NewRecord("", family, &w, time.Now().UTC())
			return trace.WriteReport(cmd.OutOrStdout(), opts.output, []trace.Record{record})
		},
	}
	addReportFlags(cmd, opts)
	addEncodeFlags(cmd, &fields)
	return cmd
}

func newVarCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "var",
		Short: "Read and write words in the variable store",
	}

	getCmd := &cobra.Command{
		Use:   "get NAME...",
		Short: "Decode variables from the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := opts.parsedFamily()
			if err != nil {
				return err
			}

			logger := opts.logger(cmd)
			store, err := simvar.OpenFileStore(opts.config.StorePath, logger)
			if err != nil {
				return err
			}
			bridge := simvar.NewBridge(store, logger)

			now := time.Now().UTC()
			records := make([]trace.Record, 0, len(args))
			for _, name := range args {
				w, err := bridge.Read(name)
				if err != nil {
					return err
				}
				records = append(records, trace.NewRecord(name, family, &w, now))
			}

			return trace.WriteReport(cmd.OutOrStdout(), opts.output, records)
		},
	}
	addReportFlags(getCmd, opts)

	var fields encodeFlags
	setCmd := &cobra.Command{
		Use:   "set NAME [RAW]",
		Short: "Write a raw word, or one built from field flags, to the store",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var w arinc429.Word
			if len(args) == 2 {
				raw, err := simvar.ParseRaw(args[1])
				if err != nil {
					return err
				}
				w = arinc429.Decode(raw)
			} else {
				built, err := fields.build()
				if err != nil {
					return err
				}
				w = built
			}

			logger := opts.logger(cmd)
			store, err := simvar.OpenFileStore(opts.config.StorePath, logger)
			if err != nil {
				return err
			}
			if err := simvar.NewBridge(store, logger).Write(args[0], &w); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), w.GetRaw())
			return nil
		},
	}
	addEncodeFlags(setCmd, &fields)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Decode every variable in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := opts.parsedFamily()
			if err != nil {
				return err
			}

			logger := opts.logger(cmd)
			store, err := simvar.OpenFileStore(opts.config.StorePath, logger)
			if err != nil {
				return err
			}
			bridge := simvar.NewBridge(store, logger)

			now := time.Now().UTC()
			names := store.Names()
			records := make([]trace.Record, 0, len(names))
			for _, name := range names {
				w, err := bridge.Read(name)
				if err != nil {
					return err
				}
				records = append(records, trace.NewRecord(name, family, &w, now))
			}

			return trace.WriteReport(cmd.OutOrStdout(), opts.output, records)
		},
	}
	addReportFlags(listCmd, opts)

	cmd.AddCommand(getCmd, setCmd, listCmd)
	return cmd
}

func newMonitorCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Sample watched variables and trace them to rotating logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range opts.watches {
				w, err := app.ParseWatch(s)
				if err != nil {
					return err
				}
				opts.config.Watches = append(opts.config.Watches, w)
			}

			application := app.NewApplication(opts.config)
			return application.Start()
		},
	}

	cmd.Flags().StringArrayVarP(&opts.watches, "watch", "w", nil, "Variable to watch, NAME or NAME=family (repeatable)")
	cmd.Flags().StringVarP(&opts.config.LogDir, "log-dir", "l", app.DefaultLogDir, "Trace log directory")
	cmd.Flags().BoolVarP(&opts.config.LogRotateUTC, "utc", "u", true, "Use UTC for log rotation")
	cmd.Flags().DurationVarP(&opts.config.Interval, "interval", "i", app.DefaultInterval, "Sampling interval")
	cmd.Flags().IntVar(&opts.config.KeepDays, "keep-days", app.DefaultKeepDays, "Remove trace files older than this many days (0 keeps all)")

	return cmd
}

// parseUint accepts decimal, 0x hex, 0o octal and 0b binary forms.
func parseUint(s string, bitSize int) (uint64, error) {
	return strconv.ParseUint(s, 0, bitSize)
}
