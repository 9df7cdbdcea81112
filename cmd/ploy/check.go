package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"ploy/internal/diag"
	"ploy/internal/diagfmt"
	"ploy/internal/driver"
	"ploy/internal/observ"
	"ploy/internal/source"
	"ploy/internal/ui"
	"ploy/internal/watch"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.ply|dir]",
	Short: "Check ploy sources for errors",
	Long: `Check lexes, parses and lowers a file or every .ply file under a directory
and reports diagnostics. Without an argument the project root holding Ploy.toml
is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json|short)")
	checkCmd.Flags().String("dump", "", "print lowered output of a single file (ast|symbols|scopes)")
	checkCmd.Flags().Int("jobs", 0, "max parallel files (0 = GOMAXPROCS)")
	checkCmd.Flags().Bool("watch", false, "re-check when sources change")
	checkCmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	checkCmd.Flags().String("unit", "", "scope name for top-level definitions")
	checkCmd.Flags().Bool("scope-markers", false, "splice scope enter/return markers into the lowered tree")
	checkCmd.Flags().Bool("cache", false, "reuse results from the on-disk module cache")
}

type checkConfig struct {
	target string
	format diagFormat
	dump   string
	jobs   int
	ui     uiMode
	opts   driver.Options
}

func readCheckConfig(cmd *cobra.Command, args []string) (*checkConfig, error) {
	flags := cmd.Flags()
	cfg := &checkConfig{}

	formatStr, err := flags.GetString("format")
	if err != nil {
		return nil, fmt.Errorf("failed to get format flag: %w", err)
	}
	if cfg.format, err = readDiagFormat(formatStr); err != nil {
		return nil, err
	}
	if cfg.dump, err = flags.GetString("dump"); err != nil {
		return nil, fmt.Errorf("failed to get dump flag: %w", err)
	}
	switch cfg.dump {
	case "", "ast", "symbols", "scopes":
	default:
		return nil, fmt.Errorf("unknown --dump value %q (expected ast|symbols|scopes)", cfg.dump)
	}
	if cfg.jobs, err = flags.GetInt("jobs"); err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiStr, err := flags.GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if cfg.ui, err = readUIMode(uiStr); err != nil {
		return nil, err
	}
	if cfg.opts.Unit, err = flags.GetString("unit"); err != nil {
		return nil, fmt.Errorf("failed to get unit flag: %w", err)
	}
	if cfg.opts.ScopeMarkers, err = flags.GetBool("scope-markers"); err != nil {
		return nil, fmt.Errorf("failed to get scope-markers flag: %w", err)
	}

	start := ""
	if len(args) == 1 {
		start = args[0]
	}
	manifest, ok, err := loadProject(start)
	if err != nil {
		return nil, err
	}
	switch {
	case start != "":
		cfg.target = start
	case ok:
		cfg.target = manifest.Root
	default:
		cfg.target = "."
	}
	if cfg.opts.MaxDiagnostics, err = projectMaxDiagnostics(cmd, manifest); err != nil {
		return nil, err
	}

	useCache, err := flags.GetBool("cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache flag: %w", err)
	}
	watching, _ := flags.GetBool("watch")
	// --dump нужен Module, а кэшированный результат его не содержит
	if cfg.dump == "" && (useCache || watching) {
		var disk *driver.DiskCache
		if useCache {
			if disk, err = driver.OpenDiskCache("ploy"); err != nil {
				return nil, fmt.Errorf("open cache: %w", err)
			}
		}
		cfg.opts.Cache = driver.NewModuleCache(64, disk)
	}
	return cfg, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := readCheckConfig(cmd, args)
	if err != nil {
		return err
	}
	watching, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("failed to get watch flag: %w", err)
	}

	cleanup, err := startSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if !watching {
		failed, err := checkOnce(cmd.Context(), cmd, cfg)
		if err != nil {
			return err
		}
		if failed {
			return errReported
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	cfg.ui = uiModeOff
	if _, err := checkOnce(ctx, cmd, cfg); err != nil {
		return err
	}
	if !isQuiet(cmd) {
		fmt.Fprintf(os.Stderr, "watching %s (ctrl-c to stop)\n", cfg.target)
	}
	return watch.Run(ctx, cfg.target, watch.Options{}, func(changed []string) error {
		if !isQuiet(cmd) {
			fmt.Fprintf(os.Stderr, "\nchanged: %s\n", strings.Join(changed, ", "))
		}
		_, err := checkOnce(ctx, cmd, cfg)
		return err
	})
}

// checkOnce checks cfg.target and prints everything. failed reports
// diagnostics with error severity; err is for I/O and setup problems.
func checkOnce(ctx context.Context, cmd *cobra.Command, cfg *checkConfig) (failed bool, err error) {
	st, err := os.Stat(cfg.target)
	if err != nil {
		return false, fmt.Errorf("failed to stat path: %w", err)
	}
	if st.IsDir() && cfg.dump != "" {
		return false, fmt.Errorf("--dump is only supported for single files")
	}

	opts := cfg.opts
	opts.Timer = observ.NewTimer()

	var (
		fs      *source.FileSet
		results []*driver.CheckResult
	)
	if st.IsDir() {
		fs, results, err = checkDir(ctx, cfg, opts)
	} else {
		var res *driver.CheckResult
		res, err = driver.Check(ctx, cfg.target, opts)
		if res != nil {
			fs, results = res.FileSet, []*driver.CheckResult{res}
		}
	}
	if err != nil {
		return false, err
	}

	all := diag.NewBag(0)
	for _, res := range results {
		all.Merge(res.Bag)
	}
	if err := printDiagnostics(cmd, os.Stdout, all, fs, cfg.format); err != nil {
		return false, err
	}
	if cfg.dump != "" && len(results) == 1 {
		if err := dumpModule(os.Stdout, results[0], cfg.dump); err != nil {
			return false, err
		}
	}
	if err := printTimings(cmd, os.Stderr, opts.Timer); err != nil {
		return false, err
	}
	failed = all.HasErrors()
	if !isQuiet(cmd) && cfg.format != diagJSON {
		fmt.Fprintln(os.Stderr, summaryLine(results))
	}
	return failed, nil
}

func checkDir(ctx context.Context, cfg *checkConfig, opts driver.Options) (*source.FileSet, []*driver.CheckResult, error) {
	if !shouldUseTUI(cfg.ui) {
		return driver.CheckDir(ctx, cfg.target, opts, cfg.jobs)
	}
	files, err := driver.ListSourceFiles(cfg.target)
	if err != nil {
		return nil, nil, err
	}

	events := make(chan driver.PhaseEvent, 256)
	uiDone := make(chan struct{})
	opts.Observer = func(ev driver.PhaseEvent) {
		select {
		case events <- ev:
		case <-uiDone:
		}
	}

	type outcome struct {
		fs      *source.FileSet
		results []*driver.CheckResult
		err     error
	}
	outcomeCh := make(chan outcome, 1)
	go func() {
		fs, results, err := driver.CheckDir(ctx, cfg.target, opts, cfg.jobs)
		close(events)
		outcomeCh <- outcome{fs, results, err}
	}()

	uiErr := ui.Run(ctx, os.Stderr, "checking "+cfg.target, files, events)
	close(uiDone)
	out := <-outcomeCh
	if out.err != nil {
		return nil, nil, out.err
	}
	return out.fs, out.results, uiErr
}

func dumpModule(w io.Writer, res *driver.CheckResult, what string) error {
	if res.Module == nil {
		return nil
	}
	switch what {
	case "symbols":
		return diagfmt.FormatSymbols(w, res.Module.Symbols)
	case "scopes":
		return diagfmt.FormatScopes(w, res.Module.Symbols)
	default:
		return diagfmt.FormatASTPretty(w, res.Module.AST, res.Module.Symbols)
	}
}

func summaryLine(results []*driver.CheckResult) string {
	failed, cached := 0, 0
	for _, res := range results {
		if res.Failed() {
			failed++
		}
		if res.Cached {
			cached++
		}
	}
	noun := "files"
	if len(results) == 1 {
		noun = "file"
	}
	line := fmt.Sprintf("checked %d %s", len(results), noun)
	if cached > 0 {
		line += fmt.Sprintf(", %d cached", cached)
	}
	if failed > 0 {
		return line + fmt.Sprintf(", %d with errors", failed)
	}
	return line + ", ok"
}
