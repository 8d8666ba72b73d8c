package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/phyten/todovet/internal/model"
	"github.com/phyten/todovet/internal/progress"
	"github.com/phyten/todovet/internal/scan"
	"github.com/phyten/todovet/internal/tags"
)

// 形式判定に使う先頭バイト数です。
const headBytes = 512

type scanJob struct {
	rel string
}

type scanResult struct {
	occurrences []model.Occurrence
	errs        []ItemError
}

// Run は BasePath 以下を走査し、TODO の違反一覧を返します。
//
// 処理は 2 段階です。まずファイルごとにコメント領域を抽出してタグを探し、
// 次に見つかった TODO を Checker で検査します。ファイルの読み込みエラーは
// Result.Errors に集約されますが、課題トラッカーへの問い合わせに失敗した場合は
// 実行全体がエラーになります。
func Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	if strings.TrimSpace(opts.BasePath) == "" {
		opts.BasePath = "."
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.NumCPU()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	observer := opts.ProgressObserver
	if observer == nil {
		observer = progress.NoopObserver{}
	}
	ignored := NormalizeIgnored(opts.Ignored)
	if len(opts.Tags) == 0 {
		opts.Tags = tags.DefaultTags
	}
	matcher := tags.New(opts.Tags, opts.CaseSensitive)

	files, err := collectFiles(opts.BasePath, ignored, log)
	if err != nil {
		return nil, err
	}
	log.Debug("collected files", zap.String("basepath", opts.BasePath), zap.Int("files", len(files)))

	est := progress.NewEstimator(progress.StageScan, len(files), progress.Config{})
	observer.Publish(est.Snapshot())
	occurrences, errs := scanFiles(ctx, opts, files, matcher, est, observer)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	observer.Publish(est.Begin(progress.StageCheck, len(occurrences)))
	findings, err := checkOccurrences(ctx, opts, occurrences, est, observer)
	observer.Done(est.Complete())
	if err != nil {
		return nil, err
	}

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].File == findings[j].File {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].File < findings[j].File
	})
	sort.SliceStable(errs, func(i, j int) bool {
		if errs[i].File == errs[j].File {
			if errs[i].Line == errs[j].Line {
				return errs[i].Stage < errs[j].Stage
			}
			return errs[i].Line < errs[j].Line
		}
		return errs[i].File < errs[j].File
	})

	return &Result{
		Findings:    findings,
		Files:       len(files),
		Occurrences: len(occurrences),
		Total:       len(findings),
		ElapsedMS:   msSince(start),
		Errors:      errs,
		ErrorCount:  len(errs),
	}, nil
}

func scanFiles(ctx context.Context, opts Options, files []string, matcher *tags.Matcher, est *progress.Estimator, observer progress.Observer) ([]model.Occurrence, []ItemError) {
	if len(files) == 0 {
		return nil, nil
	}
	root := fileBase(opts.BasePath)
	jobs := make(chan scanJob)
	results := make(chan scanResult)

	workers := opts.Jobs
	if workers > len(files) {
		workers = len(files)
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				res := scanFile(root, job.rel, opts.MaxFileBytes, matcher)
				select {
				case results <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, rel := range files {
			select {
			case <-ctx.Done():
				return
			case jobs <- scanJob{rel: rel}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var occurrences []model.Occurrence
	var errs []ItemError
	for res := range results {
		occurrences = append(occurrences, res.occurrences...)
		errs = append(errs, res.errs...)
		if snap, notify := est.Advance(1); notify {
			observer.Publish(snap)
		}
	}
	return occurrences, errs
}

// scanFile は 1 ファイルからタグを含むコメントを抽出します。
// バイナリや上限を超えるファイルは読み飛ばします。
func scanFile(root, rel string, maxBytes int, matcher *tags.Matcher) scanResult {
	name := filepath.Join(root, rel)
	if maxBytes > 0 {
		if info, err := os.Stat(name); err == nil && info.Size() > int64(maxBytes) {
			return scanResult{}
		}
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return scanResult{errs: []ItemError{newItemError(name, 0, "read", err)}}
	}
	head := data
	if len(head) > headBytes {
		head = head[:headBytes]
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return scanResult{}
	}
	style, ok := scan.StyleFor(rel, head)
	if !ok {
		return scanResult{}
	}
	var out []model.Occurrence
	for _, region := range scan.Regions(name, data, style) {
		if occ, ok := matcher.Find(region); ok {
			out = append(out, occ)
		}
	}
	return scanResult{occurrences: out}
}

func checkOccurrences(ctx context.Context, opts Options, occurrences []model.Occurrence, est *progress.Estimator, observer progress.Observer) ([]model.Finding, error) {
	if len(occurrences) == 0 {
		return nil, nil
	}
	chk := opts.Checker
	if chk == nil {
		chk = formatOnly{}
	}
	root := fileBase(opts.BasePath)
	found := make([]*model.Finding, len(occurrences))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	for i := range occurrences {
		g.Go(func() error {
			finding, err := chk.Check(gctx, occurrences[i])
			if err != nil {
				return err
			}
			if finding != nil && opts.SourceURL != nil {
				if rel, err := filepath.Rel(root, finding.File); err == nil {
					finding.SourceURL = opts.SourceURL(filepath.ToSlash(rel), finding.Line)
				}
			}
			found[i] = finding
			if snap, notify := est.Advance(1); notify {
				observer.Publish(snap)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.Finding
	for _, f := range found {
		if f != nil {
			out = append(out, *f)
		}
	}
	return out, nil
}

// formatOnly は課題トラッカーを使わずに形式違反だけを報告します。
type formatOnly struct{}

func (formatOnly) Check(_ context.Context, occ model.Occurrence) (*model.Finding, error) {
	if occ.WellFormed {
		return nil, nil
	}
	return model.NewMalformed(occ.Region), nil
}

func newItemError(file string, line int, stage string, err error) ItemError {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = "unknown error"
	}
	return ItemError{File: file, Line: line, Stage: stage, Message: msg}
}

func msSince(t time.Time) int64 {
	return time.Since(t).Milliseconds()
}

// Describe は Result を 1 行で要約します。
func (r *Result) Describe() string {
	return fmt.Sprintf("%d files, %d todos, %d findings, %d errors in %dms", r.Files, r.Occurrences, r.Total, r.ErrorCount, r.ElapsedMS)
}
