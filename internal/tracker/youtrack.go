package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/phyten/todovet/internal/model"
)

const youtrackStateField = "StateIssueCustomField"

type youtrackTracker struct {
	base
}

func (y *youtrackTracker) api() string {
	scheme, parts := y.originParts()
	host := ""
	if len(parts) > 0 {
		host = parts[0]
	}
	return y.endpoint(scheme + "//" + host + "/youtrack/api")
}

func (y *youtrackTracker) NewRequest(ctx context.Context, id string) (*http.Request, error) {
	u := y.api() + "/issues/" + url.PathEscape(TrimIssueID(id)) + "?fields=customFields(value(isResolved))"
	req, err := y.get(ctx, u)
	if err != nil {
		return nil, err
	}
	y.bearer(req)
	return req, nil
}

// Decode reads isResolved from the state custom field. Issues without a state
// field are open.
func (y *youtrackTracker) Decode(body []byte) (model.TaskStatus, error) {
	var issue struct {
		CustomFields []struct {
			Type  string `json:"$type"`
			Value *struct {
				IsResolved bool `json:"isResolved"`
			} `json:"value"`
		} `json:"customFields"`
	}
	if err := json.Unmarshal(body, &issue); err != nil {
		return model.StatusNone, fmt.Errorf("decode youtrack issue: %w", err)
	}
	for _, field := range issue.CustomFields {
		if field.Type != youtrackStateField {
			continue
		}
		if field.Value == nil {
			return model.StatusNone, errors.New("youtrack state field has no value")
		}
		if field.Value.IsResolved {
			return model.StatusClosed, nil
		}
		return model.StatusOpen, nil
	}
	return model.StatusOpen, nil
}

func (y *youtrackTracker) WebURL(id string) string {
	scheme, parts := y.originParts()
	if len(parts) == 0 {
		return ""
	}
	return scheme + "//" + parts[0] + "/youtrack/issue/" + TrimIssueID(id)
}

func (y *youtrackTracker) TokenInstructions() string {
	return y.instructions("Please go to https://www.jetbrains.com/help/youtrack/standalone/Manage-Permanent-Token.html, follow the tutorial, create a new API token & paste it here.")
}

func (y *youtrackTracker) Exists(ctx context.Context) error {
	req, err := y.get(ctx, y.api()+"/config?fields=version")
	if err != nil {
		return err
	}
	y.bearer(req)
	return y.probe(ctx, req)
}
