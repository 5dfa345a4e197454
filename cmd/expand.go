package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/alexcrichton/futures-await/cli"
	"github.com/alexcrichton/futures-await/desugar"
	"github.com/alexcrichton/futures-await/internal/comment"
	"github.com/alexcrichton/futures-await/internal/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	debug       bool
	packagePath string
	diffFile    string
	configFile  string
	printOutput bool
	annotate    bool
	crate       string
	typeCrate   string
)

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "expand async functions",
	Long:  "expand #[async] functions, async blocks and await! sites and write the changes as a diff",
	Args:  cobra.ExactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(Expand(cmd))
	},
}

// loadConfig reads the config file when one is given and applies the flags
// that were set on top of it.
func loadConfig(cmd *cobra.Command) (*cli.Config, error) {
	cfg := cli.NewConfig()
	if configFile != "" {
		loaded, err := cli.LoadConfig(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("path") {
		cfg.Path = packagePath
	}
	if flags.Changed("diff") {
		cfg.DiffFile = diffFile
	}
	if flags.Changed("print") {
		cfg.Print = printOutput
	}
	if flags.Changed("annotate") {
		cfg.Annotate = annotate
	}
	if flags.Changed("debug") {
		cfg.Debug = debug
	}
	if flags.Changed("crate") {
		cfg.Runtime.Crate = crate
	}
	if flags.Changed("type-crate") {
		cfg.Runtime.TypeCrate = typeCrate
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Expand runs an expansion with the settings of cmd.
func Expand(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.Debug {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		comment.SetLogger(logger)
		defer func() {
			_ = logger.Sync()
			comment.SetLogger(nil)
		}()
	}

	files, err := desugar.LoadSources(cfg.Path)
	if err != nil {
		return err
	}
	appPath := cfg.Path
	if len(files) == 1 && files[0].Path == cfg.Path {
		appPath = filepath.Dir(cfg.Path)
	}
	comment.Logger().Debug("loaded sources", zap.String("path", cfg.Path), zap.Int("files", len(files)))

	manager, err := desugar.NewExpansionManager(files, desugar.Options{
		Runtime:  cfg.RuntimePaths(),
		AppPath:  appPath,
		DiffFile: cfg.DiffFile,
		Annotate: cfg.Annotate,
	})
	if err != nil {
		return err
	}

	if err := manager.DiscoverAsyncFunctions(); err != nil {
		return err
	}
	expandErr := manager.ExpandAll(cmd.Context())
	if expandErr != nil {
		sources := make(map[string]string, len(files))
		for _, f := range files {
			sources[f.Path] = f.Src
		}
		reportDiagnostics(cmd.ErrOrStderr(), sources, expandErr)
	}

	if err := manager.CreateDiffFile(); err != nil {
		return err
	}
	if err := manager.WriteDiff(); err != nil {
		return err
	}

	if cfg.Print {
		for _, path := range manager.Files() {
			out, err := manager.Output(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "// %s\n%s", path, out)
		}
	}

	comment.WriteAll()
	if expandErr != nil {
		return errors.New("some sites could not be expanded")
	}
	return nil
}

// reportDiagnostics writes every expansion error in err with the source line
// it points at.
func reportDiagnostics(w io.Writer, sources map[string]string, err error) {
	walkErrors(err, "", func(file string, err error) {
		var de *desugar.Error
		if !errors.As(err, &de) {
			fmt.Fprintf(w, "%s: %v\n", file, err)
			return
		}
		fmt.Fprintf(w, "%s:%v\n", file, de)
		if snippet := util.Snippet(sources[file], de.Span); snippet != "" {
			fmt.Fprintln(w, snippet)
		}
	})
}

func walkErrors(err error, file string, fn func(file string, err error)) {
	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			walkErrors(inner, file, fn)
		}
	case *desugar.FileError:
		walkErrors(e.Err, e.File, fn)
	default:
		fn(file, err)
	}
}

func init() {
	expandCmd.Flags().BoolVar(&debug, "debug", false, "enable debugging output")
	expandCmd.Flags().StringVar(&packagePath, "path", "", "source file or directory to expand")
	expandCmd.Flags().StringVar(&diffFile, "diff", "", "specify diff output file path")
	expandCmd.Flags().StringVar(&configFile, "config", "", "read settings from a YAML file")
	expandCmd.Flags().BoolVar(&printOutput, "print", false, "print the expanded sources")
	expandCmd.Flags().BoolVar(&annotate, "annotate", false, "mark expanded functions with a comment")
	expandCmd.Flags().StringVar(&crate, "crate", "", "runtime crate named inside expanded bodies")
	expandCmd.Flags().StringVar(&typeCrate, "type-crate", "", "crate named in rewritten signatures")
	cobra.MarkFlagFilename(expandCmd.Flags(), "diff", ".diff") // for file completion
	cobra.MarkFlagFilename(expandCmd.Flags(), "config", "yaml", "yml")

	rootCmd.AddCommand(expandCmd)
}
