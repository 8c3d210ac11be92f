package main

import (
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/soniakeys/exit"
	"github.com/spf13/cobra"

	"github.com/user/pjc_analyzer_go/internal/config"
	"github.com/user/pjc_analyzer_go/internal/dtg"
)

func main() {
	defer exit.Handler()

	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		exit.Log(err)
	}
}

type options struct {
	verbose    int
	configPath string
	outDir     string
	pdfPath    string
	rowPattern string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options
	var run RunArgs

	cmd := &cobra.Command{
		Use:   "pjc_analyzer [flags] storm_id valid_time fcst_time tau in_file fcst_mdl anal_mdl",
		Short: "Reliability diagram and likelihood chart from a MET .pjc file",
		Example: `  pjc_analyzer al052019 20190517T1200Z 20190516T1200Z 24 wave.pjc GFS ERA5
  pjc_analyzer -vv --pdf report.pdf -o plots al052019 20190517T1200Z 20190516T1200Z 24 wave.pjc GFS ERA5`,
		// Argument errors are reported before the input file is touched.
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(7)(cmd, args); err != nil {
				return err
			}
			parsed, err := parseRunArgs(args)
			if err != nil {
				return err
			}
			run = parsed
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			log := newLogger(stderr, opts.verbose)

			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			app, err := NewApp(cfg, log, stdout)
			if err != nil {
				return err
			}
			return app.Run(run)
		},
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.CountVarP(&opts.verbose, "verbose", "v", "Set output volume - using this twice will result in even more")
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	f.StringVarP(&opts.outDir, "out-dir", "o", "", "Directory for the PNG files (default \".\")")
	f.StringVar(&opts.pdfPath, "pdf", "", "Also write both charts to this PDF file")
	f.StringVar(&opts.rowPattern, "row-pattern", "", "Regular expression selecting data rows (default \""+config.Defaults().RowPattern+"\")")
	return cmd
}

// loadConfig reads the config file, if any, and applies flag overrides.
func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Defaults()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}
	flags := cmd.Flags()
	if flags.Changed("out-dir") {
		cfg.OutputDir = o.outDir
	}
	if flags.Changed("pdf") {
		cfg.PDFPath = o.pdfPath
	}
	if flags.Changed("row-pattern") {
		cfg.RowPattern = o.rowPattern
	}
	return &cfg, nil
}

func parseRunArgs(args []string) (RunArgs, error) {
	valid, err := dtg.Display(args[1])
	if err != nil {
		return RunArgs{}, errors.Wrap(err, "valid_time")
	}
	fcst, err := dtg.Display(args[2])
	if err != nil {
		return RunArgs{}, errors.Wrap(err, "fcst_time")
	}
	tau, err := strconv.Atoi(args[3])
	if err != nil {
		return RunArgs{}, errors.Wrapf(err, "tau must be an integer")
	}
	return RunArgs{
		StormID:   args[0],
		ValidTime: valid,
		FcstTime:  fcst,
		Tau:       tau,
		InFile:    args[4],
		FcstModel: args[5],
		AnalModel: args[6],
	}, nil
}

func newLogger(w io.Writer, verbose int) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	switch {
	case verbose > 1:
		log.SetLevel(logrus.DebugLevel)
	case verbose == 1:
		log.SetLevel(logrus.InfoLevel)
	default:
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}
