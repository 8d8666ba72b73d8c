package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/phyten/todovet/internal/model"
)

type redmineTracker struct {
	base
}

func (r *redmineTracker) NewRequest(ctx context.Context, id string) (*http.Request, error) {
	req, err := r.get(ctx, r.endpoint(r.originURL())+"/issues/"+url.PathEscape(TrimIssueID(id))+".json")
	if err != nil {
		return nil, err
	}
	r.authorize(req)
	return req, nil
}

func (r *redmineTracker) authorize(req *http.Request) {
	if r.auth.Type == AuthAPIToken {
		req.Header.Set("X-Redmine-API-Key", r.auth.Token)
	}
}

func (r *redmineTracker) Decode(body []byte) (model.TaskStatus, error) {
	var payload struct {
		Issue struct {
			Status struct {
				Name string `json:"name"`
			} `json:"status"`
		} `json:"issue"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return model.StatusNone, fmt.Errorf("decode redmine issue: %w", err)
	}
	switch payload.Issue.Status.Name {
	case "Resolved", "Closed", "Feedback", "Rejected":
		return model.StatusClosed, nil
	default:
		return model.StatusOpen, nil
	}
}

func (r *redmineTracker) WebURL(id string) string {
	return r.originURL() + "/issues/" + TrimIssueID(id)
}

func (r *redmineTracker) TokenInstructions() string {
	return r.instructions(fmt.Sprintf("Please go to %s/my/account, create a new API token & paste it here.", r.originURL()))
}

// Exists asks for a single issue so that a wrong host or a disabled REST API
// is reported before the scan.
func (r *redmineTracker) Exists(ctx context.Context) error {
	req, err := r.get(ctx, r.endpoint(r.originURL())+"/issues.json?limit=1")
	if err != nil {
		return err
	}
	r.authorize(req)
	return r.probe(ctx, req)
}
