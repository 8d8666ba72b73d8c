package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/phyten/todovet/internal/model"
	"github.com/phyten/todovet/internal/progress"
)

// Checker は TODO の出現 1 件を検査します。checker.Checker が実装します。
type Checker interface {
	Check(ctx context.Context, occ model.Occurrence) (*model.Finding, error)
}

// ItemError は 1 ファイルの処理に失敗した際の情報を表す
type ItemError struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Options は実行オプション
type Options struct {
	BasePath      string
	Ignored       []string
	Tags          []string
	CaseSensitive bool
	Jobs          int
	MaxFileBytes  int

	// Checker が nil の場合は形式のみを検査します。
	Checker Checker `json:"-"`
	// SourceURL は BasePath からの相対パスと行番号からソースの URL を返します。
	SourceURL        func(file string, line int) string `json:"-"`
	ProgressObserver progress.Observer                  `json:"-"`
	Logger           *zap.Logger                        `json:"-"`
}

// Result は出力
type Result struct {
	Findings    []model.Finding `json:"findings"`
	Files       int             `json:"files"`
	Occurrences int             `json:"occurrences"`
	Total       int             `json:"total"`
	ElapsedMS   int64           `json:"elapsed_ms"`
	Errors      []ItemError     `json:"errors,omitempty"`
	ErrorCount  int             `json:"error_count"`
}
