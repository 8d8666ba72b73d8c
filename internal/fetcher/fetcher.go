package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/phyten/todovet/internal/model"
	"github.com/phyten/todovet/internal/statuscache"
	"github.com/phyten/todovet/internal/tracker"
)

// レスポンス本文の読み込み上限です。
const maxBodyBytes = 4 << 20

// Cache は課題状態の保存先です。statuscache.Cache が実装します。
type Cache interface {
	Lookup(ctx context.Context, key statuscache.Key) (model.TaskStatus, bool, error)
	Store(ctx context.Context, key statuscache.Key, status model.TaskStatus) error
}

// Fetcher はトラッカーへ課題の状態を問い合わせます。
// 同じ課題への同時リクエストは 1 回にまとめられます。
type Fetcher struct {
	tracker tracker.IssueTracker
	client  *http.Client
	cache   Cache
	logger  *zap.Logger

	group    singleflight.Group
	requests atomic.Int64
}

// Option は Fetcher の設定を変更します。
type Option func(*Fetcher)

// WithCache はキャッシュを設定します。nil の場合はキャッシュしません。
func WithCache(c Cache) Option {
	return func(f *Fetcher) { f.cache = c }
}

// WithHTTPClient は HTTP クライアントを差し替えます。
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithLogger はロガーを設定します。
func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// New は Fetcher を返します。
func New(it tracker.IssueTracker, opts ...Option) *Fetcher {
	f := &Fetcher{
		tracker: it,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Requests はこれまでに送信した HTTP リクエスト数を返します。
func (f *Fetcher) Requests() int64 {
	return f.requests.Load()
}

// Fetch は課題 id の状態を返します。404 は StatusNonExistent になり、
// それ以外の 200 以外の応答はエラーです。
func (f *Fetcher) Fetch(ctx context.Context, id string) (model.TaskStatus, error) {
	key := statuscache.Key{
		Tracker: string(f.tracker.Kind()),
		Origin:  f.tracker.Origin(),
		ID:      tracker.TrimIssueID(id),
	}
	v, err, shared := f.group.Do(key.ID, func() (any, error) {
		return f.fetch(ctx, key, id)
	})
	if shared {
		f.logger.Debug("shared in-flight lookup", zap.String("issue", key.ID))
	}
	if err != nil {
		return model.StatusNone, err
	}
	return v.(model.TaskStatus), nil
}

func (f *Fetcher) fetch(ctx context.Context, key statuscache.Key, id string) (model.TaskStatus, error) {
	if f.cache != nil {
		status, ok, err := f.cache.Lookup(ctx, key)
		switch {
		case err != nil:
			f.logger.Warn("status cache lookup failed", zap.String("issue", key.ID), zap.Error(err))
		case ok:
			f.logger.Debug("status cache hit", zap.String("issue", key.ID), zap.String("status", string(status)))
			return status, nil
		}
	}

	status, err := f.request(ctx, id)
	if err != nil {
		return model.StatusNone, err
	}
	if f.cache != nil {
		if err := f.cache.Store(ctx, key, status); err != nil {
			f.logger.Warn("status cache store failed", zap.String("issue", key.ID), zap.Error(err))
		}
	}
	return status, nil
}

func (f *Fetcher) request(ctx context.Context, id string) (model.TaskStatus, error) {
	req, err := f.tracker.NewRequest(ctx, id)
	if err != nil {
		return model.StatusNone, fmt.Errorf("build request for %s: %w", id, err)
	}
	f.requests.Add(1)
	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return model.StatusNone, err
	}
	defer resp.Body.Close()
	f.logger.Debug("issue lookup",
		zap.String("tracker", string(f.tracker.Kind())),
		zap.String("issue", id),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return model.StatusNone, fmt.Errorf("read response for %s: %w", id, err)
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return f.tracker.Decode(body)
	case http.StatusNotFound:
		return model.StatusNonExistent, nil
	default:
		return model.StatusNone, fmt.Errorf("bad status code upon fetching task: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}
