package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/SAFedorov/logochemy/golib/errors"
	"github.com/SAFedorov/logochemy/golib/tokenmerge/reduce"
	"github.com/SAFedorov/logochemy/golib/tokenmerge/splitting"
	"github.com/SAFedorov/logochemy/golib/tokenmerge/vocab"
	"github.com/SAFedorov/logochemy/golib/zaplog"
)

// commonArgs are shared by every command.
type commonArgs struct {
	Input       string `arg:"positional,required" help:"UTF-8 text file"`
	Out         string `arg:"--out" help:"write the final splitting as a JSON array of tokens"`
	Vocab       string `arg:"--vocab" help:"write the vocabulary with token counts, as CSV for .csv files and JSON otherwise"`
	Normalize   *bool  `arg:"--normalize" help:"NFC-normalize the text before splitting it; --normalize=false overrides the config"`
	ReportEvery *int   `arg:"--report-every" help:"log progress every this many iterations (default 100, 0 disables)"`
	Config      string `arg:"--config" help:"YAML file with defaults for the flags"`
	Debug       bool   `arg:"--debug" help:"log every merge"`
	Console     bool   `arg:"--console" help:"human readable logs instead of JSON lines"`
}

func (a commonArgs) validate() error {
	if a.ReportEvery != nil && *a.ReportEvery < 0 {
		return errors.Errorf("report-every must be >= 0")
	}
	return nil
}

func (a commonArgs) logger() *zap.Logger {
	return zaplog.New(zaplog.Options{
		Debug:   a.Debug,
		Console: a.Console,
		Stdout:  stdout,
		Stderr:  stderr,
	})
}

// readInput loads the text and returns its character-level splitting.
func (a commonArgs) readInput(cfg config) (splitting.Splitting, error) {
	buf, err := afero.ReadFile(appFs, a.Input)
	if err != nil {
		return nil, errors.Wrapf(err, "reading input")
	}
	if !utf8.Valid(buf) {
		return nil, errors.Wrapf(splitting.ErrInvalidUTF8, "input %s", a.Input)
	}
	if pickBool(a.Normalize, cfg.Normalize, false) {
		buf = norm.NFC.Bytes(buf)
	}
	return splitting.Chars(string(buf)), nil
}

// progress logs every n-th step at info level.
func progress(l *zap.Logger, n int) func(reduce.Step) {
	if n <= 0 {
		return nil
	}
	return func(step reduce.Step) {
		if (step.Iter+1)%n != 0 {
			return
		}
		l.Info("progress",
			zap.Int("iter", step.Iter+1),
			zap.String("tokens", humanize.Comma(int64(step.Tokens))),
			zap.String("vocab", humanize.Comma(int64(step.VocabSize))))
	}
}

// writeOutputs writes the final splitting and its vocabulary where requested
// and logs a summary of the splitting.
func (a commonArgs) writeOutputs(l *zap.Logger, initial, final splitting.Splitting) error {
	if a.Out != "" {
		err := writeFile(a.Out, func(w io.Writer) error {
			return json.NewEncoder(w).Encode(final)
		})
		if err != nil {
			return err
		}
	}
	if a.Vocab != "" {
		entries := vocab.FromSplitting(final)
		err := writeFile(a.Vocab, func(w io.Writer) error {
			if strings.HasSuffix(a.Vocab, ".csv") {
				return vocab.WriteCSV(w, entries)
			}
			_, err := vocab.WriteTo(w, entries)
			return err
		})
		if err != nil {
			return err
		}
	}

	sum, err := vocab.Summarize(final)
	if err != nil {
		return err
	}
	l.Info("splitting",
		zap.String("chars", humanize.Comma(int64(sum.Chars))),
		zap.String("initial_tokens", humanize.Comma(int64(len(initial)))),
		zap.String("tokens", humanize.Comma(int64(sum.Tokens))),
		zap.String("vocab", humanize.Comma(int64(sum.VocabSize))),
		zap.Float64("chars_per_token", sum.CharsPerToken()),
		zap.Float64("median_len", sum.MedianLen),
		zap.Float64("p95_len", sum.P95Len),
		zap.Float64("max_len", sum.MaxLen))
	return nil
}

// writeFile creates path on appFs and hands a buffered writer to write.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := appFs.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer errors.Defer(&err, f.Close)

	w := bufio.NewWriter(f)
	if err := write(w); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.WrapfOrNil(w.Flush(), "writing %s", path)
}

// interruptible returns a context cancelled on the first interrupt.
func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
