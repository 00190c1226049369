package main

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/cvrf2csaf/config"
	"github.com/aquasecurity/cvrf2csaf/converter"
	"github.com/aquasecurity/cvrf2csaf/logging"
	"github.com/aquasecurity/cvrf2csaf/section"
)

var (
	configFile string
	logLevel   string
	outputFile string
	outputDir  string
	inputDir   string
	indexURL   string
)

var rootCmd = &cobra.Command{
	Use:           "cvrf2csaf",
	Short:         "Convert CVRF documents into CSAF",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var convertCmd = &cobra.Command{
	Use:   "convert <file|url|->",
	Short: "Convert a single CVRF document",
	Long: `Converts one CVRF document (plain or zstd compressed) read from a file,
an http(s) URL or stdin ("-"). The CSAF JSON is written to stdout unless
--output is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Convert a directory or an HTML index of CVRF documents",
	RunE:  runBatch,
}

func init() {
	rootCmd.AddCommand(convertCmd, batchCmd)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the CSAF document to this file")

	batchCmd.Flags().StringVar(&inputDir, "dir", "", "directory with CVRF files")
	batchCmd.Flags().StringVar(&indexURL, "index", "", "URL of an HTML index linking CVRF files")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for CSAF documents")
	batchCmd.MarkFlagsMutuallyExclusive("dir", "index")
	batchCmd.MarkFlagsOneRequired("dir", "index")
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	return rootCmd.Execute()
}

// setup loads the configuration and builds the converter shared by all
// subcommands. Flags win over the config file and the environment.
func setup() (*converter.Config, *zap.Logger, error) {
	fs := afero.NewOsFs()
	conf, err := config.Load(fs, configFile)
	if err != nil {
		return nil, nil, xerrors.Errorf("config error: %w", err)
	}
	if logLevel != "" {
		conf.LogLevel = logLevel
	}
	if outputDir != "" {
		conf.OutputDir = outputDir
	}

	logger, err := logging.New(conf.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	c := converter.NewConfig(
		converter.WithLogger(logger),
		converter.WithFs(fs),
		converter.WithOutputDir(conf.OutputDir),
		converter.WithRetry(conf.Retry),
		converter.WithConcurrency(conf.Concurrency),
	)
	return c, logger, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	c, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	input := args[0]
	var doc section.Document
	switch {
	case input == "-":
		doc, err = c.Convert(cmd.InOrStdin())
	case strings.HasPrefix(input, "http://"), strings.HasPrefix(input, "https://"):
		doc, err = c.ConvertURL(input)
	default:
		doc, err = c.ConvertFile(input)
	}
	if err != nil {
		return xerrors.Errorf("conversion error: %w", err)
	}

	if outputFile == "" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return xerrors.Errorf("failed to marshal JSON: %w", err)
	}
	if err = afero.WriteFile(afero.NewOsFs(), outputFile, b, 0644); err != nil {
		return xerrors.Errorf("failed to write %s: %w", outputFile, err)
	}
	logger.Info("CSAF document written", zap.String("file", outputFile))
	return nil
}

func runBatch(_ *cobra.Command, _ []string) error {
	c, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	var written int
	if inputDir != "" {
		written, err = c.ConvertDir(inputDir)
	} else {
		written, err = c.ConvertIndex(indexURL)
	}
	logger.Info("Batch finished", zap.Int("written", written))
	if err != nil {
		return xerrors.Errorf("batch conversion error: %w", err)
	}
	return nil
}
