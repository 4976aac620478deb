package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/paholefmt/internal/config"
	"github.com/skdltmxn/paholefmt/internal/driver"
)

type rootFlags struct {
	outputFile   string
	configFile   string
	charsPerByte int
	bytesPerMark int
	bytesPerLine int
	keepGoing    bool
	quiet        bool
}

var rootCmd = newRootCmd()

// createOutput opens the --output destination.
var createOutput = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "paholefmt [file...]",
		Short: "Draw pahole struct layouts as ASCII diagrams",
		Long: `paholefmt reads the output of pahole and draws every struct, class
and union it reports as a boxed memory layout diagram with a byte ruler.

Input is read from the named files in order, or from standard input when
no file (or "-") is given. Rendering scale can be set with flags or in a
paholefmt.toml file found in the working directory or one of its parents.

An input file named "version" must be given as ./version.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, flags, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.outputFile, "output", "o", "", "write output to file instead of stdout")
	f.StringVarP(&flags.configFile, "config", "c", "", "read settings from this TOML file")
	f.IntVar(&flags.charsPerByte, "chars-per-byte", defaults.Render.CharsPerByte, "horizontal characters per byte")
	f.IntVar(&flags.bytesPerMark, "bytes-per-mark", defaults.Render.BytesPerMark, "bytes between ruler marks")
	f.IntVar(&flags.bytesPerLine, "bytes-per-line", defaults.Render.BytesPerLine, "bytes per diagram row")
	f.BoolVarP(&flags.keepGoing, "keep-going", "k", false, "skip blocks with errors instead of stopping")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "do not print warnings")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

// loadConfig resolves file settings and applies the flags that were set
// explicitly on top of them.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := config.Load(flags.configFile, wd)
	if err != nil {
		return config.Config{}, err
	}

	f := cmd.Flags()
	if f.Changed("chars-per-byte") {
		cfg.Render.CharsPerByte = flags.charsPerByte
	}
	if f.Changed("bytes-per-mark") {
		cfg.Render.BytesPerMark = flags.bytesPerMark
	}
	if f.Changed("bytes-per-line") {
		cfg.Render.BytesPerLine = flags.bytesPerLine
	}
	if f.Changed("keep-going") {
		cfg.Driver.KeepGoing = flags.keepGoing
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runFormat(cmd *cobra.Command, flags *rootFlags, args []string) (err error) {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flags.outputFile != "" {
		f, cerr := createOutput(flags.outputFile)
		if cerr != nil {
			return fmt.Errorf("failed to create output file: %w", cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close output file: %w", cerr)
			}
		}()
		out = f
	}

	var logOut io.Writer = cmd.ErrOrStderr()
	if flags.quiet {
		logOut = io.Discard
	}

	opts := cfg.DriverOptions()
	opts.Logger = log.New(logOut, cmd.Root().Name()+": ", 0)
	d := driver.New(out, opts)

	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, name := range args {
		if err := feed(cmd, d, name); err != nil {
			return err
		}
	}
	return d.Close()
}

func feed(cmd *cobra.Command, d *driver.Driver, name string) error {
	if name == "-" {
		if err := d.Run(cmd.Context(), cmd.InOrStdin()); err != nil {
			return fmt.Errorf("<stdin>: %w", err)
		}
		return nil
	}

	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	if err := d.Run(cmd.Context(), f); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
