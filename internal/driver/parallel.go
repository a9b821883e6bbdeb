package driver

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"valc/internal/diag"
	"valc/internal/ir"
	"valc/internal/lower"
	"valc/internal/observ"
	"valc/internal/program"
	"valc/internal/trace"
)

// Input is one program to lower, named after where it came from.
type Input struct {
	Name    string
	Program *program.Program
}

// Options configures LowerAll.
type Options struct {
	Jobs           int // <= 0 means GOMAXPROCS
	MaxDiagnostics int
	Cache          *SnapshotCache
	Progress       ProgressSink
	Timings        bool // attach per-program timings as an info diagnostic
}

// Result содержит результат понижения одной программы
type Result struct {
	Name    string
	Modules []*ir.Module // one per module declaration, in AST order
	Bag     *diag.Bag
	Cached  bool
	Err     error
	Timing  observ.Report
}

// LowerAll lowers every input in its own goroutine, at most opts.Jobs at
// a time. Programs share nothing, so no locking is needed between them.
// Results come back in input order. A program that fails to lower records
// its error in its Result; only cancellation fails the whole run.
func LowerAll(ctx context.Context, inputs []Input, opts Options) ([]Result, error) {
	span, ctx := trace.StartSpan(ctx, trace.ScopeDriver, "lower-all")
	defer span.End("")
	span.WithExtra("programs", fmt.Sprint(len(inputs)))

	results := make([]Result, len(inputs))
	if len(inputs) == 0 {
		return results, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	for _, in := range inputs {
		report(opts.Progress, Event{Name: in.Name, Stage: StageLower, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(inputs)))
	for i, in := range inputs {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// индекс i уникален для каждой горутины, мьютекс не нужен
			results[i] = lowerOne(gctx, in, opts)
			if results[i].Err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func lowerOne(ctx context.Context, in Input, opts Options) Result {
	span, ctx := trace.StartSpan(ctx, trace.ScopePass, "program:"+in.Name)
	defer span.End("")

	res := Result{Name: in.Name, Bag: diag.NewBag(opts.MaxDiagnostics)}
	timer := observ.NewTimer()
	start := time.Now()
	emit := func(stage Stage, status Status, err error) {
		report(opts.Progress, Event{Name: in.Name, Stage: stage, Status: status, Err: err, Elapsed: time.Since(start)})
	}

	var key Digest
	if opts.Cache != nil {
		emit(StageFingerprint, StatusWorking, nil)
		err := timer.Time(string(StageFingerprint), func() (err error) {
			key, err = program.Fingerprint(in.Program)
			return err
		})
		if err != nil {
			res.Err = err
			emit(StageFingerprint, StatusError, err)
			return res
		}
		if modules, diags, ok := lookup(opts.Cache, key, span); ok {
			for _, d := range diags {
				res.Bag.Add(d)
			}
			res.Modules, res.Cached = modules, true
			res.Timing = timer.Report()
			emit(StageLower, StatusCached, nil)
			return res
		}
	}

	emit(StageLower, StatusWorking, nil)
	err := timer.Time(string(StageLower), func() error {
		for _, mod := range in.Program.AST.Modules {
			m, bag, err := lower.LowerModule(ctx, in.Program, mod)
			res.Bag.Merge(bag)
			if err != nil {
				return err
			}
			res.Modules = append(res.Modules, m)
		}
		return nil
	})
	if err != nil {
		res.Err = err
		emit(StageLower, StatusError, err)
		return res
	}

	if opts.Cache != nil {
		emit(StageEncode, StatusWorking, nil)
		err := timer.Time(string(StageEncode), func() error {
			return store(opts.Cache, key, res.Modules, res.Bag.Items())
		})
		if err != nil {
			trace.Point(ctx, trace.ScopePass, "cache-write", err.Error())
		}
	}

	res.Timing = timer.Report()
	if opts.Timings {
		appendTimingDiagnostic(res.Bag, timingPayload{Name: in.Name, TotalMS: res.Timing.TotalMS, Phases: res.Timing.Phases})
	}
	emit(StageLower, StatusDone, nil)
	return res
}

// lookup returns the cached result for key. Unreadable entries are misses.
func lookup(c *SnapshotCache, key Digest, span *trace.Span) ([]*ir.Module, []diag.Diagnostic, bool) {
	var payload CachePayload
	hit, err := c.Get(key, &payload)
	if err != nil {
		span.WithExtra("cache", err.Error())
		return nil, nil, false
	}
	if !hit {
		return nil, nil, false
	}
	modules := make([]*ir.Module, len(payload.Modules))
	for i, data := range payload.Modules {
		m, err := ir.Decode(data)
		if err != nil {
			span.WithExtra("cache", err.Error())
			return nil, nil, false
		}
		modules[i] = m
	}
	return modules, payload.Diagnostics, true
}

func store(c *SnapshotCache, key Digest, modules []*ir.Module, diags []diag.Diagnostic) error {
	payload := CachePayload{Diagnostics: diags, Modules: make([][]byte, len(modules))}
	for i, m := range modules {
		data, err := ir.Encode(m)
		if err != nil {
			return err
		}
		payload.Modules[i] = data
	}
	return c.Put(key, &payload)
}
