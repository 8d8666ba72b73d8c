package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/phyten/todovet/internal/model"
)

type gitlabTracker struct {
	base
}

// host returns "scheme://host" and the project path ("group/sub/repo").
func (g *gitlabTracker) host() (string, string) {
	scheme, parts := g.originParts()
	if len(parts) == 0 {
		return scheme + "//", ""
	}
	return scheme + "//" + parts[0], strings.Join(parts[1:], "/")
}

func (g *gitlabTracker) projectAPI() string {
	host, project := g.host()
	return fmt.Sprintf("%s/projects/%s", g.endpoint(host+"/api/v4"), url.QueryEscape(project))
}

func (g *gitlabTracker) NewRequest(ctx context.Context, id string) (*http.Request, error) {
	req, err := g.get(ctx, g.projectAPI()+"/issues/"+url.PathEscape(TrimIssueID(id)))
	if err != nil {
		return nil, err
	}
	g.authorize(req)
	return req, nil
}

func (g *gitlabTracker) authorize(req *http.Request) {
	if g.auth.Type == AuthAPIToken {
		req.Header.Set("PRIVATE-TOKEN", g.auth.Token)
	}
}

func (g *gitlabTracker) Decode(body []byte) (model.TaskStatus, error) {
	var issue struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal(body, &issue); err != nil {
		return model.StatusNone, fmt.Errorf("decode gitlab issue: %w", err)
	}
	if issue.State == "closed" {
		return model.StatusClosed, nil
	}
	return model.StatusOpen, nil
}

func (g *gitlabTracker) WebURL(id string) string {
	host, project := g.host()
	return fmt.Sprintf("%s/%s/-/issues/%s", host, project, TrimIssueID(id))
}

func (g *gitlabTracker) TokenInstructions() string {
	host, _ := g.host()
	return g.instructions(fmt.Sprintf("Please go to %s/profile/personal_access_tokens, create a read-only access token & paste it here.", host))
}

func (g *gitlabTracker) Exists(ctx context.Context) error {
	req, err := g.get(ctx, g.projectAPI())
	if err != nil {
		return err
	}
	g.authorize(req)
	return g.probe(ctx, req)
}
