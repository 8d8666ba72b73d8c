package checker

import (
	"context"
	"fmt"

	"github.com/phyten/todovet/internal/model"
)

// StatusFetcher は課題の状態を返します。fetcher.Fetcher が実装します。
type StatusFetcher interface {
	Fetch(ctx context.Context, id string) (model.TaskStatus, error)
}

// Checker は TODO の出現から Finding を作成します。
type Checker struct {
	fetcher  StatusFetcher
	issueURL func(id string) string
}

// Option は Checker の設定を変更します。
type Option func(*Checker)

// WithIssueURL は Finding に付与する課題 URL の生成関数を設定します。
func WithIssueURL(fn func(id string) string) Option {
	return func(c *Checker) { c.issueURL = fn }
}

// New は Checker を返します。fetcher が nil の場合は形式のみを検査します。
func New(fetcher StatusFetcher, opts ...Option) *Checker {
	c := &Checker{fetcher: fetcher}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check は違反がなければ nil を返します。
// 課題状態の取得に失敗した場合は Finding ではなくエラーを返します。
func (c *Checker) Check(ctx context.Context, occ model.Occurrence) (*model.Finding, error) {
	if !occ.WellFormed {
		return model.NewMalformed(occ.Region), nil
	}
	if c.fetcher == nil {
		return nil, nil
	}
	status, err := c.fetcher.Fetch(ctx, occ.ID)
	if err != nil {
		return nil, fmt.Errorf("couldn't fetch task status: %w", err)
	}
	var kind model.FindingKind
	switch status {
	case model.StatusClosed:
		kind = model.FindingClosed
	case model.StatusNonExistent:
		kind = model.FindingNonExistent
	default:
		return nil, nil
	}
	finding := model.NewIssueFinding(kind, occ.Region, occ.ID)
	if c.issueURL != nil {
		finding.IssueURL = c.issueURL(occ.ID)
	}
	return finding, nil
}
