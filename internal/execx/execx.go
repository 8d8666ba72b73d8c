// Package execx は外部コマンド (git, gh) の実行を差し替え可能にします。
package execx

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Runner は外部コマンドを実行するための最小インターフェースです。
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout []byte, stderr []byte, err error)
}

// CommandRunner は os/exec による実装です。Env は子プロセスの環境に追加されます。
type CommandRunner struct {
	Env []string
}

func (r CommandRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// DefaultRunner は CommandRunner を返します。
func DefaultRunner() Runner {
	return CommandRunner{}
}

// Error は失敗したコマンドの標準エラーを元のエラーに添えます。
type Error struct {
	Err    error
	Stderr string
}

func (e *Error) Error() string {
	if e.Stderr == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Stderr
}

func (e *Error) Unwrap() error { return e.Err }

// Output はコマンドを実行し、前後の空白を除いた標準出力を返します。
// runner が nil なら DefaultRunner を使います。
func Output(ctx context.Context, runner Runner, dir, name string, args ...string) (string, error) {
	if runner == nil {
		runner = DefaultRunner()
	}
	stdout, stderr, err := runner.Run(ctx, dir, name, args...)
	if err != nil {
		return "", &Error{Err: err, Stderr: strings.TrimSpace(string(stderr))}
	}
	return strings.TrimSpace(string(stdout)), nil
}

// IsNotFound はコマンド自体が見つからなかったかどうかを返します。
func IsNotFound(err error) bool {
	var execErr *exec.Error
	return errors.As(err, &execErr)
}
