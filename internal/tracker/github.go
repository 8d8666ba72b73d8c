package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/phyten/todovet/internal/model"
)

const githubInstructions = "Please go to https://github.com/settings/tokens, create a read-only access token & paste it here."

type githubTracker struct {
	base
	api   *github.Client
	owner string
	repo  string
}

func newGitHub(b base) (*githubTracker, error) {
	_, parts := b.originParts()
	if len(parts) < 3 {
		return nil, fmt.Errorf("%s is not a valid origin for issue tracker %s", b.origin, GitHub)
	}
	api := github.NewClient(b.client)
	if b.auth.Type == AuthAPIToken {
		api = api.WithAuthToken(b.auth.Token)
	}
	if b.baseURL != "" {
		u, err := url.Parse(b.baseURL + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API url: %w", err)
		}
		api.BaseURL = u
	}
	return &githubTracker{
		base:  b,
		api:   api,
		owner: strings.ToLower(parts[1]),
		repo:  strings.ToLower(strings.TrimSuffix(parts[2], ".git")),
	}, nil
}

func (g *githubTracker) NewRequest(ctx context.Context, id string) (*http.Request, error) {
	path := fmt.Sprintf("repos/%s/%s/issues/%s", g.owner, g.repo, url.PathEscape(TrimIssueID(id)))
	req, err := g.api.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	// the fetcher sends the request with its own client, so the token from
	// WithAuthToken is not applied automatically
	g.bearer(req)
	return req.WithContext(ctx), nil
}

func (g *githubTracker) Decode(body []byte) (model.TaskStatus, error) {
	var issue github.Issue
	if err := json.Unmarshal(body, &issue); err != nil {
		return model.StatusNone, fmt.Errorf("decode github issue: %w", err)
	}
	if issue.GetState() == "closed" {
		return model.StatusClosed, nil
	}
	return model.StatusOpen, nil
}

func (g *githubTracker) WebURL(id string) string {
	return fmt.Sprintf("https://github.com/%s/%s/issues/%s", g.owner, g.repo, TrimIssueID(id))
}

func (g *githubTracker) TokenInstructions() string {
	return g.instructions(githubInstructions)
}

// Exists looks the repository up. Private repositories look missing without
// a token.
func (g *githubTracker) Exists(ctx context.Context) error {
	_, _, err := g.api.Repositories.Get(ctx, g.owner, g.repo)
	if err == nil {
		return nil
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s. Is the repository private?", ErrNotFound, g.origin)
	}
	return fmt.Errorf("lookup %s/%s: %w", g.owner, g.repo, err)
}
