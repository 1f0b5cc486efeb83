package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jvmlower/internal/driver"
	"jvmlower/internal/project"
	"jvmlower/internal/trace"
)

var lowerCmd = &cobra.Command{
	Use:   "lower [paths...]",
	Short: "Lower compilation units and report synthesized declarations",
	Long: `Lower every unit file (*.unit.toml, *.unit.mp) under the given paths.
Without paths the [lower].units of jvmlower.toml are used.`,
	RunE: lowerExecution,
}

// lowerFlags holds the flag values that override jvmlower.toml.
type lowerFlags struct {
	jobs       int
	jobsSet    bool
	cacheDir   string
	noCache    bool
	companions []string
}

type lowerOptions struct {
	paths      []string
	jobs       int
	companions []string
	cacheDir   string
	useCache   bool
}

// mergeLowerOptions applies flags and positional paths over cfg.
func mergeLowerOptions(cfg *project.Config, flags lowerFlags, args []string) (lowerOptions, error) {
	opts := lowerOptions{
		jobs:     cfg.JobLimit(),
		useCache: !flags.noCache,
	}
	if flags.jobsSet {
		if flags.jobs < 0 {
			return lowerOptions{}, fmt.Errorf("--jobs must be >= 0, got %d", flags.jobs)
		}
		if flags.jobs > 0 {
			opts.jobs = flags.jobs
		}
	}

	switch {
	case len(args) > 0:
		opts.paths = slices.Clone(args)
	case len(cfg.Lower.Units) > 0:
		for _, p := range cfg.Lower.Units {
			opts.paths = append(opts.paths, cfg.Resolve(p))
		}
	default:
		opts.paths = []string{"."}
	}

	opts.companions = slices.Clone(cfg.Companions.Intrinsic)
	for _, c := range flags.companions {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if !slices.Contains(opts.companions, c) {
			opts.companions = append(opts.companions, c)
		}
	}

	opts.cacheDir = cfg.Resolve(cfg.Lower.Cache)
	if flags.cacheDir != "" {
		opts.cacheDir = flags.cacheDir
	}
	return opts, nil
}

func readLowerFlags(cmd *cobra.Command) (lowerFlags, error) {
	var flags lowerFlags
	var err error
	if flags.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return flags, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	flags.jobsSet = cmd.Flags().Changed("jobs")
	if flags.cacheDir, err = cmd.Flags().GetString("cache"); err != nil {
		return flags, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if flags.noCache, err = cmd.Flags().GetBool("no-cache"); err != nil {
		return flags, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if flags.companions, err = cmd.Flags().GetStringSlice("companion"); err != nil {
		return flags, fmt.Errorf("failed to get companion flag: %w", err)
	}
	return flags, nil
}

func loadProjectConfig() (project.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return project.Config{}, err
	}
	cfg, _, err := project.Discover(wd)
	return cfg, err
}

func lowerExecution(cmd *cobra.Command, args []string) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	flags, err := readLowerFlags(cmd)
	if err != nil {
		return err
	}
	opts, err := mergeLowerOptions(&cfg, flags, args)
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	showDump, err := cmd.Flags().GetBool("dump")
	if err != nil {
		return fmt.Errorf("failed to get dump flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	showProgress, err := useProgressView(uiValue, quiet)
	if err != nil {
		return err
	}

	cleanup, err := setupTracing(cmd, cfg.Lower.Trace)
	if err != nil {
		return err
	}
	defer cleanup()
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	files, err := driver.ListUnits(opts.paths)
	if err != nil {
		return err
	}
	req := &driver.Request{
		Paths:      files,
		Jobs:       opts.jobs,
		Companions: opts.companions,
	}
	if opts.useCache {
		cache, err := driver.OpenDiskCache(opts.cacheDir, "jvmlower")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		req.Cache = cache
	}

	var results []driver.Result
	if showProgress {
		results, err = runLowerWithUI(cmd.Context(), "lowering units", files, req)
	} else {
		results, err = driver.LowerUnits(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i := range results {
		printResult(out, cmd.ErrOrStderr(), &results[i], showDump, quiet)
		if timings {
			printTimings(out, &results[i])
		}
	}
	if failed := driver.Failed(results); failed > 0 {
		if ring := trace.RingOf(trace.FromContext(cmd.Context())); ring != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "recent trace events:")
			if err := ring.Dump(cmd.ErrOrStderr(), trace.FormatText); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		return fmt.Errorf("%d of %d units failed", failed, len(results))
	}
	return nil
}

func printResult(out, errOut io.Writer, res *driver.Result, showDump, quiet bool) {
	if res.Err != nil {
		fmt.Fprintln(errOut, color.New(color.FgRed, color.Bold).Sprint("error: ")+res.Err.Error())
		return
	}
	if showDump {
		fmt.Fprint(out, res.Dump)
		if !strings.HasSuffix(res.Dump, "\n") {
			fmt.Fprintln(out)
		}
	}
	if quiet {
		return
	}
	line := fmt.Sprintf("%s: module %s, %d synthesized", res.Path, res.Module, res.Stats.Total())
	if res.Cached {
		line += " " + color.New(color.FgCyan).Sprint("(cached)")
	}
	fmt.Fprintln(out, line)
}

func init() {
	lowerCmd.Flags().Int("jobs", 0, "units lowered in parallel (0 = GOMAXPROCS or [lower].jobs)")
	lowerCmd.Flags().String("cache", "", "dump cache directory (default [lower].cache or the user cache dir)")
	lowerCmd.Flags().Bool("no-cache", false, "do not read or write the dump cache")
	lowerCmd.Flags().StringSlice("companion", nil, "extra intrinsic companion owner (repeatable), e.g. kotlin.UInt")
	lowerCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
	lowerCmd.Flags().Bool("dump", false, "print the lowered IR of each unit")
}
