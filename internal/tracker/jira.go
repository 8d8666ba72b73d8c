package tracker

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/phyten/todovet/internal/model"
)

// Jira 9 and later take Basic auth for API tokens; older servers take Bearer.
const defaultJiraVersion = 9

type jiraTracker struct {
	base

	versionOnce sync.Once
	version     int
}

func (j *jiraTracker) api() string {
	return j.endpoint(j.originURL())
}

// serverVersion probes /rest/api/2/serverInfo once and falls back to
// defaultJiraVersion on any failure.
func (j *jiraTracker) serverVersion(ctx context.Context) int {
	j.versionOnce.Do(func() {
		j.version = defaultJiraVersion
		req, err := j.get(ctx, j.api()+"/rest/api/2/serverInfo")
		if err != nil {
			return
		}
		resp, err := j.client.Do(req)
		if err != nil {
			return
		}
		defer resp.Body.Close()
		var info struct {
			Version string `json:"version"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Version == "" {
			return
		}
		major, _, _ := strings.Cut(info.Version, ".")
		if v, err := strconv.Atoi(major); err == nil {
			j.version = v
		}
	})
	return j.version
}

func (j *jiraTracker) NewRequest(ctx context.Context, id string) (*http.Request, error) {
	req, err := j.get(ctx, j.api()+"/rest/api/2/issue/"+url.PathEscape(TrimIssueID(id)))
	if err != nil {
		return nil, err
	}
	switch j.auth.Type {
	case AuthOffline:
		j.bearer(req)
	case AuthAPIToken:
		if j.serverVersion(ctx) >= defaultJiraVersion {
			creds := base64.StdEncoding.EncodeToString([]byte(j.auth.Username + ":" + j.auth.Token))
			req.Header.Set("Authorization", "Basic "+creds)
		} else {
			j.bearer(req)
		}
	}
	return req, nil
}

func (j *jiraTracker) Decode(body []byte) (model.TaskStatus, error) {
	var issue struct {
		Fields struct {
			Status struct {
				Name string `json:"name"`
			} `json:"status"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(body, &issue); err != nil {
		return model.StatusNone, fmt.Errorf("decode jira issue: %w", err)
	}
	switch issue.Fields.Status.Name {
	case "Done", "Closed":
		return model.StatusClosed, nil
	default:
		return model.StatusOpen, nil
	}
}

func (j *jiraTracker) WebURL(id string) string {
	return j.originURL() + "/browse/" + TrimIssueID(id)
}

func (j *jiraTracker) TokenInstructions() string {
	switch j.auth.Type {
	case AuthOffline:
		return fmt.Sprintf("Please go to %s, acquire an offline token & paste it here.", j.auth.OfflineURL)
	case AuthAPIToken:
		return fmt.Sprintf("Please go to %s/secure/ViewProfile.jspa, create a personal access token & paste it here.", j.originURL())
	default:
		return ""
	}
}

func (j *jiraTracker) Exists(ctx context.Context) error {
	req, err := j.get(ctx, j.api()+"/rest/api/2/serverInfo")
	if err != nil {
		return err
	}
	return j.probe(ctx, req)
}
