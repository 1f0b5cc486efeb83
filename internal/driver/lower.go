// Package driver lowers compilation units in parallel, one private set of
// tables and one declaration factory per unit.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"jvmlower/internal/builtins"
	"jvmlower/internal/declfactory"
	"jvmlower/internal/ir"
	"jvmlower/internal/lower"
	"jvmlower/internal/observ"
	"jvmlower/internal/trace"
	"jvmlower/internal/unitfile"
)

// ErrNoUnits is returned when the given paths contain no unit files.
var ErrNoUnits = errors.New("no unit files found")

// Request configures LowerUnits.
type Request struct {
	Paths []string
	// Jobs bounds the number of units lowered at once; <= 0 means GOMAXPROCS.
	Jobs int
	// Companions are extra intrinsic companion objects for every unit.
	Companions []string
	// Cache is optional. It is bypassed when DumpSymbols is set.
	Cache    *DiskCache
	Progress ProgressSink

	// DumpSymbols fills Result.Symbols with the synthesized symbols.
	DumpSymbols bool
}

// Result is the outcome for one unit. Err is set when the unit failed to
// load or lowering hit an internal error; other units are unaffected.
type Result struct {
	Path   string
	Module string
	Dump   string

	// Symbols lists the unit's synthesized symbols when requested.
	Symbols string

	Stats  declfactory.Stats
	Timing observ.Report
	Cached bool
	Err    error
}

// Failed counts results with an error.
func Failed(results []Result) int {
	n := 0
	for i := range results {
		if results[i].Err != nil {
			n++
		}
	}
	return n
}

// ListUnits expands paths into a sorted list of unit files. Directories are
// walked recursively.
func ListUnits(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if path == root || unitfile.IsUnitFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if len(files) == 0 {
		return nil, ErrNoUnits
	}
	slices.Sort(files)
	return files, nil
}

// LowerUnits lowers every unit under req.Paths. Results are in path order.
// The returned error covers discovery and cancellation only; per-unit
// failures are reported in Result.Err.
func LowerUnits(ctx context.Context, req *Request) ([]Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return nil, fmt.Errorf("missing lower request")
	}
	files, err := ListUnits(req.Paths)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		reporter{req.Progress, f}.emit(StageLoad, StatusQueued, nil, 0)
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "lower_units", trace.CurrentSpan(ctx))
	span.WithExtra("units", fmt.Sprint(len(files)))
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	oracle := builtins.NewTable(req.Companions...)

	// each goroutine writes only its own index
	results := make([]Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = lowerFile(gctx, req, oracle, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func lowerFile(ctx context.Context, req *Request, oracle *builtins.Table, path string) Result {
	res := Result{Path: path}
	rep := reporter{req.Progress, path}
	start := time.Now()
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeUnit, "unit", trace.CurrentSpan(ctx))
	span.WithExtra("path", path)
	defer func() {
		detail := "ok"
		switch {
		case res.Err != nil:
			detail = "error"
		case res.Cached:
			detail = "cached"
		}
		span.End(detail)
	}()

	rep.emit(StageLoad, StatusWorking, nil, 0)
	u, data, err := unitfile.Read(path)
	if err != nil {
		res.Err = err
		rep.emit(StageLoad, StatusError, err, time.Since(start))
		return res
	}
	res.Module = u.Module
	companions := slices.Concat(req.Companions, u.Companions)
	key := UnitKey(data, companions)
	cache := req.Cache
	if req.DumpSymbols {
		cache = nil
	}
	if cache != nil {
		var payload DiskPayload
		if ok, err := cache.Get(key, &payload); err == nil && ok {
			res.Dump = payload.Dump
			res.Timing = payload.Timing
			res.Stats = payload.Stats
			res.Cached = true
			rep.emit(StageCache, StatusDone, nil, time.Since(start))
			return res
		} else if err != nil {
			trace.Point(tracer, trace.ScopeUnit, "cache_read_failed", err.Error(), span.ID(), nil)
		}
	}

	loaded, err := unitfile.Build(u)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		rep.emit(StageLoad, StatusError, res.Err, time.Since(start))
		return res
	}
	rep.emit(StageLoad, StatusDone, nil, time.Since(start))

	rep.emit(StageLower, StatusWorking, nil, 0)
	lowerStart := time.Now()
	unitOracle := oracle
	if len(u.Companions) > 0 {
		unitOracle = builtins.NewTable(companions...)
	}
	unit := lower.NewUnit(loaded.Module, loaded.Types, loaded.Symbols,
		declfactory.WithCompanionOracle(unitOracle),
		declfactory.WithTracer(tracer, span.ID()),
	)
	timer := observ.NewTimer()
	var lowerErr error
	if ie := declfactory.Catch(func() {
		lowerErr = lower.Run(trace.WithSpan(ctx, span), unit, timer)
	}); ie != nil {
		lowerErr = ie
	}
	if lowerErr != nil {
		res.Err = fmt.Errorf("%s: %w", path, lowerErr)
		rep.emit(StageLower, StatusError, res.Err, time.Since(lowerStart))
		return res
	}

	var sb strings.Builder
	if err := ir.DumpModule(&sb, loaded.Module, loaded.Types); err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		rep.emit(StageLower, StatusError, res.Err, time.Since(lowerStart))
		return res
	}
	res.Dump = sb.String()
	if req.DumpSymbols {
		var syms strings.Builder
		if err := loaded.Symbols.Dump(&syms, true); err != nil {
			res.Err = fmt.Errorf("%s: %w", path, err)
			rep.emit(StageLower, StatusError, res.Err, time.Since(lowerStart))
			return res
		}
		res.Symbols = syms.String()
	}
	res.Stats = unit.Factory.Stats()
	res.Timing = timer.Report()

	if cache != nil {
		payload := &DiskPayload{
			Module: res.Module,
			Dump:   res.Dump,
			Stats:  res.Stats,
			Timing: res.Timing,
		}
		if err := cache.Put(key, payload); err != nil {
			trace.Point(tracer, trace.ScopeUnit, "cache_write_failed", err.Error(), span.ID(), nil)
		}
	}
	rep.emit(StageLower, StatusDone, nil, time.Since(lowerStart))
	return res
}
