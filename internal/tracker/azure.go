package tracker

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/phyten/todovet/internal/model"
)

const azureAPIVersion = "6.0"

type azureTracker struct {
	base
}

// project returns "organization/project" from dev.azure.com/<org>/<project>.
func (a *azureTracker) project() (string, string) {
	scheme, parts := a.originParts()
	if len(parts) < 3 {
		return scheme, ""
	}
	return scheme, url.PathEscape(parts[1]) + "/" + url.PathEscape(parts[2])
}

func (a *azureTracker) api() string {
	scheme, project := a.project()
	return a.endpoint(scheme+"//dev.azure.com") + "/" + project + "/_apis"
}

func (a *azureTracker) NewRequest(ctx context.Context, id string) (*http.Request, error) {
	u := fmt.Sprintf("%s/wit/workitems/%s?api-version=%s", a.api(), url.PathEscape(TrimIssueID(id)), azureAPIVersion)
	req, err := a.get(ctx, u)
	if err != nil {
		return nil, err
	}
	a.authorize(req)
	return req, nil
}

func (a *azureTracker) authorize(req *http.Request) {
	if a.auth.Type == AuthAPIToken {
		req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(":"+a.auth.Token)))
	}
}

// Decode reads System.State. Closed, Done and Removed count as closed.
func (a *azureTracker) Decode(body []byte) (model.TaskStatus, error) {
	var item struct {
		State  string         `json:"state"`
		Fields map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(body, &item); err != nil {
		return model.StatusNone, fmt.Errorf("decode azure work item: %w", err)
	}
	state := item.State
	if s, ok := item.Fields["System.State"].(string); ok {
		state = s
	}
	switch strings.ToLower(state) {
	case "closed", "done", "removed":
		return model.StatusClosed, nil
	default:
		return model.StatusOpen, nil
	}
}

func (a *azureTracker) WebURL(id string) string {
	scheme, project := a.project()
	return fmt.Sprintf("%s//dev.azure.com/%s/_workitems/edit/%s", scheme, project, TrimIssueID(id))
}

func (a *azureTracker) TokenInstructions() string {
	return a.instructions("Please create a read-only access token at Microsoft Azure & paste it here.")
}

func (a *azureTracker) Exists(ctx context.Context) error {
	req, err := a.get(ctx, a.api()+"/wit/workitemtypes?api-version="+azureAPIVersion)
	if err != nil {
		return err
	}
	a.authorize(req)
	return a.probe(ctx, req)
}
