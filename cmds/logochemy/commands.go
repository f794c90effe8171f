package main

import (
	"context"
	"io"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/SAFedorov/logochemy/golib/errors"
	"github.com/SAFedorov/logochemy/golib/tokenmerge/mergelog"
	"github.com/SAFedorov/logochemy/golib/tokenmerge/reduce"
	"github.com/SAFedorov/logochemy/golib/tokenmerge/splitting"
	"github.com/SAFedorov/logochemy/golib/zaplog"
)

type pairsArgs struct {
	commonArgs
	Iterations *int   `arg:"-n,--iterations" help:"number of merges (default 1)"`
	Log        string `arg:"--log" help:"write the merge log; .bin/.msgp for msgpack, .sz for snappy-compressed msgpack, text otherwise"`
}

func (a *pairsArgs) Validate() error {
	if a.Iterations != nil && *a.Iterations < 0 {
		return errors.Errorf("iterations must be >= 0")
	}
	return a.commonArgs.validate()
}

func (a *pairsArgs) Handle() error {
	cfg, err := loadConfig(a.Config)
	if err != nil {
		return err
	}
	opts := reduce.PairOptions{
		Iterations: pickInt(a.Iterations, cfg.Pairs.Iterations, defaultIterations),
	}
	return a.run(cfg, a.Log, func(ctx context.Context, s splitting.Splitting, o reduce.Options) (splitting.Splitting, []reduce.Step, error) {
		opts.Options = o
		return reduce.Pairs(ctx, s, opts)
	})
}

type ngramArgs struct {
	commonArgs
	MaxN          *int   `arg:"-m,--max-n" help:"longest token sequence merged at once (default 2)"`
	Iterations    *int   `arg:"-n,--iterations" help:"number of counting passes (default 1)"`
	MergesPerIter *int   `arg:"-k,--merges-per-iter" help:"merges per counting pass (default 1)"`
	Log           string `arg:"--log" help:"write the merge log; .bin/.msgp for msgpack, .sz for snappy-compressed msgpack, text otherwise"`
}

func (a *ngramArgs) options(cfg config) reduce.NGramOptions {
	return reduce.NGramOptions{
		MaxN:          pickInt(a.MaxN, cfg.NGrams.MaxN, defaultMaxN),
		Iterations:    pickInt(a.Iterations, cfg.NGrams.Iterations, defaultIterations),
		MergesPerIter: pickInt(a.MergesPerIter, cfg.NGrams.MergesPerIter, defaultMergesPerIter),
	}
}

func (a *ngramArgs) Validate() error {
	// flags alone, config values are checked once loaded
	var cfg config
	if err := a.options(cfg).Validate(); err != nil {
		return err
	}
	return a.commonArgs.validate()
}

func (a *ngramArgs) Handle() error {
	cfg, err := loadConfig(a.Config)
	if err != nil {
		return err
	}
	opts := a.options(cfg)
	if err := opts.Validate(); err != nil {
		return errors.Wrapf(err, "config %s", a.Config)
	}
	return a.run(cfg, a.Log, func(ctx context.Context, s splitting.Splitting, o reduce.Options) (splitting.Splitting, []reduce.Step, error) {
		opts.Options = o
		return reduce.NGrams(ctx, s, opts)
	})
}

type reducer func(context.Context, splitting.Splitting, reduce.Options) (splitting.Splitting, []reduce.Step, error)

// run reads the input, reduces it, and writes the outputs. When the reduction
// is interrupted the partial results are still written.
func (a commonArgs) run(cfg config, logPath string, reduceFn reducer) error {
	l := a.logger()
	defer l.Sync()

	var durs zaplog.Durations
	start := time.Now()

	initial, err := a.readInput(cfg)
	if err != nil {
		return err
	}
	start = durs.Since("read", start)

	ctx, cancel := interruptible()
	defer cancel()
	opts := reduce.Options{
		Logger:   l,
		Progress: progress(l, pickInt(a.ReportEvery, cfg.ReportEvery, defaultReportEvery)),
	}
	final, steps, reduceErr := reduceFn(ctx, initial, opts)
	if final == nil {
		return reduceErr
	}
	start = durs.Since("reduce", start)
	if reduceErr != nil {
		l.Error("reduction interrupted, writing partial results", zap.Error(reduceErr), zap.Int("merges", len(steps)))
	}

	if logPath != "" {
		f := mergelog.FormatFor(logPath)
		err := writeFile(logPath, func(w io.Writer) error {
			return mergelog.Write(w, f, steps)
		})
		if err != nil {
			return errors.Combine(reduceErr, err)
		}
		l.Info("wrote merge log", zap.String("path", logPath), zap.Stringer("format", f), zap.Int("records", len(steps)))
	}
	if err := a.writeOutputs(l, initial, final); err != nil {
		return errors.Combine(reduceErr, err)
	}
	durs.Since("write", start)
	durs.Flush(l, "timings")
	return reduceErr
}

type replayArgs struct {
	commonArgs
	Log string `arg:"--log,required" help:"merge log to apply, in any of the formats written by the reduce commands"`
}

func (a *replayArgs) Validate() error {
	return a.commonArgs.validate()
}

func (a *replayArgs) Handle() error {
	cfg, err := loadConfig(a.Config)
	if err != nil {
		return err
	}

	f, err := appFs.Open(a.Log)
	if err != nil {
		return errors.Wrapf(err, "opening merge log")
	}
	log, err := readLog(f)
	if err != nil {
		return errors.Wrapf(err, "reading merge log %s", a.Log)
	}

	return a.run(cfg, "", func(ctx context.Context, s splitting.Splitting, o reduce.Options) (splitting.Splitting, []reduce.Step, error) {
		out, err := reduce.Replay(ctx, s, log, o)
		return out, nil, err
	})
}

func readLog(f afero.File) (log []splitting.Record, err error) {
	defer errors.Defer(&err, f.Close)
	return mergelog.Read(f)
}
