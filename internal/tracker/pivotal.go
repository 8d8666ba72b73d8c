package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/phyten/todovet/internal/model"
)

type pivotalTracker struct {
	base
}

func (p *pivotalTracker) projectAPI() string {
	scheme, parts := p.originParts()
	project := ""
	if len(parts) > 0 {
		project = parts[len(parts)-1]
	}
	return fmt.Sprintf("%s/projects/%s", p.endpoint(scheme+"//www.pivotaltracker.com/services/v5"), url.PathEscape(project))
}

func (p *pivotalTracker) NewRequest(ctx context.Context, id string) (*http.Request, error) {
	req, err := p.get(ctx, p.projectAPI()+"/stories/"+url.PathEscape(TrimIssueID(id)))
	if err != nil {
		return nil, err
	}
	p.authorize(req)
	return req, nil
}

func (p *pivotalTracker) authorize(req *http.Request) {
	if p.auth.Type == AuthAPIToken {
		req.Header.Set("X-TrackerToken", p.auth.Token)
	}
}

func (p *pivotalTracker) Decode(body []byte) (model.TaskStatus, error) {
	var story struct {
		CurrentState string `json:"current_state"`
	}
	if err := json.Unmarshal(body, &story); err != nil {
		return model.StatusNone, fmt.Errorf("decode pivotal story: %w", err)
	}
	switch story.CurrentState {
	case "finished", "delivered", "accepted", "rejected":
		return model.StatusClosed, nil
	default:
		return model.StatusOpen, nil
	}
}

func (p *pivotalTracker) WebURL(id string) string {
	return "https://www.pivotaltracker.com/story/show/" + TrimIssueID(id)
}

func (p *pivotalTracker) TokenInstructions() string {
	return p.instructions("Please go to https://www.pivotaltracker.com/profile, create a new API token & paste it here.")
}

func (p *pivotalTracker) Exists(ctx context.Context) error {
	req, err := p.get(ctx, p.projectAPI())
	if err != nil {
		return err
	}
	p.authorize(req)
	return p.probe(ctx, req)
}
