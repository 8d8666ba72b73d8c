// Package tracker talks to the issue trackers that TODO comments reference.
//
// Each tracker knows how to build an authorized request for one issue and how
// to turn the response body into a task status. The HTTP round trip itself is
// done by the fetcher package so that caching and de-duplication live in one
// place.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/phyten/todovet/internal/model"
)

// Kind names an issue tracker as written in the configuration.
type Kind string

const (
	GitHub   Kind = "GITHUB"
	GitLab   Kind = "GITLAB"
	Jira     Kind = "JIRA"
	Pivotal  Kind = "PIVOTAL_TRACKER"
	Redmine  Kind = "REDMINE"
	YouTrack Kind = "YOUTRACK"
	Azure    Kind = "AZURE"
)

// Kinds returns every supported tracker in configuration order.
func Kinds() []Kind {
	return []Kind{Jira, GitHub, GitLab, Pivotal, Redmine, YouTrack, Azure}
}

// ParseKind accepts the configuration spelling, case-insensitively.
func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("invalid issue tracker: %q is not supported", raw)
}

// AuthType selects how credentials are obtained.
type AuthType string

const (
	AuthNone     AuthType = "none"
	AuthAPIToken AuthType = "apitoken"
	AuthOffline  AuthType = "offline"
)

// AuthTypes lists the valid auth types.
func AuthTypes() []AuthType {
	return []AuthType{AuthNone, AuthOffline, AuthAPIToken}
}

// ParseAuthType accepts an auth type; empty means none.
func ParseAuthType(raw string) (AuthType, error) {
	t := AuthType(strings.ToLower(strings.TrimSpace(raw)))
	if t == "" {
		return AuthNone, nil
	}
	for _, known := range AuthTypes() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid auth type: %q. valid auth types are: %q", raw, AuthTypes())
}

// Auth carries resolved credentials for a tracker.
type Auth struct {
	Type       AuthType
	Token      string
	OfflineURL string
	Username   string
}

// IssueTracker is implemented by every supported tracker.
type IssueTracker interface {
	Kind() Kind
	Origin() string
	// NewRequest returns an authorized GET request for the issue id as written
	// in the source (a leading '#' is allowed).
	NewRequest(ctx context.Context, id string) (*http.Request, error)
	// Decode maps a 200 response body to open or closed.
	Decode(body []byte) (model.TaskStatus, error)
	// WebURL is the human-facing page of the issue, or "" when unknown.
	WebURL(id string) string
	// TokenInstructions tells the user where to create a token.
	TokenInstructions() string
	// Exists checks that the configured project is reachable.
	Exists(ctx context.Context) error
}

// ErrNotFound is returned by Exists when the project cannot be found.
var ErrNotFound = errors.New("repository not found")

// Options configures New.
type Options struct {
	Kind       Kind
	Origin     string
	Auth       Auth
	HTTPClient *http.Client
	// BaseURL replaces the API endpoint derived from the origin. Used for
	// self-hosted installations and tests.
	BaseURL string
}

// New builds the tracker selected by opts.Kind.
func New(opts Options) (IssueTracker, error) {
	if strings.TrimSpace(opts.Origin) == "" {
		return nil, errors.New("origin is required")
	}
	if err := ValidateAuthType(opts.Kind, opts.Auth.Type); err != nil {
		return nil, err
	}
	if opts.Auth.Type != AuthNone && opts.Auth.Type != "" && opts.Auth.Token == "" {
		return nil, fmt.Errorf("authentication token is empty for %s", opts.Kind)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	b := newBase(opts)
	switch opts.Kind {
	case GitHub:
		return newGitHub(b)
	case GitLab:
		return &gitlabTracker{base: b}, nil
	case Jira:
		return &jiraTracker{base: b}, nil
	case Pivotal:
		return &pivotalTracker{base: b}, nil
	case Redmine:
		return &redmineTracker{base: b}, nil
	case YouTrack:
		return &youtrackTracker{base: b}, nil
	case Azure:
		return &azureTracker{base: b}, nil
	default:
		return nil, fmt.Errorf("invalid issue tracker: %q is not supported", opts.Kind)
	}
}

var originPatterns = map[Kind]*regexp.Regexp{
	Jira:     regexp.MustCompile(`^(https?://)?[a-zA-Z0-9\-]+(\.[a-zA-Z0-9]+)+(:[0-9]+)?$`),
	GitHub:   regexp.MustCompile(`^(https?://)?(www\.)?github\.com/[\w-]+/[\w.-]+`),
	GitLab:   regexp.MustCompile(`^(https?://)?[a-zA-Z0-9\-]+(\.[a-zA-Z0-9]+)+(:[0-9]+)?(/[\w.-]+)+/[\w.-]+$`),
	Pivotal:  regexp.MustCompile(`^(https?://)?(www\.)?pivotaltracker\.com/n/projects/[0-9]+`),
	Redmine:  regexp.MustCompile(`^(https?://)?[a-zA-Z0-9\-]+(\.[a-zA-Z0-9]+)+(:[0-9]+)?$`),
	YouTrack: regexp.MustCompile(`^(https?://)?[a-zA-Z0-9\-]+(\.[a-zA-Z0-9]+)+(:[0-9]+)?(/.*)?$`),
	Azure:    regexp.MustCompile(`^(https?://)?dev\.azure\.com/[\w.-]+/[\w.-]+`),
}

// ValidateOrigin checks origin against the pattern of kind.
func ValidateOrigin(kind Kind, origin string) error {
	pattern, ok := originPatterns[kind]
	if !ok || !pattern.MatchString(origin) {
		return fmt.Errorf("%s is not a valid origin for issue tracker %s", origin, kind)
	}
	return nil
}

// SupportedAuthTypes returns the auth types kind accepts.
func SupportedAuthTypes(kind Kind) []AuthType {
	if kind == Jira {
		return []AuthType{AuthNone, AuthAPIToken, AuthOffline}
	}
	return []AuthType{AuthNone, AuthAPIToken}
}

// ValidateAuthType rejects auth types kind cannot use.
func ValidateAuthType(kind Kind, t AuthType) error {
	if t == "" {
		t = AuthNone
	}
	for _, ok := range SupportedAuthTypes(kind) {
		if ok == t {
			return nil
		}
	}
	return fmt.Errorf("unsupported authentication type for %s: %s", kind, t)
}

// TrimIssueID drops the optional leading '#'.
func TrimIssueID(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), "#")
}

// base holds what every tracker needs.
type base struct {
	kind    Kind
	origin  string
	auth    Auth
	client  *http.Client
	baseURL string
}

func newBase(opts Options) base {
	auth := opts.Auth
	if auth.Type == "" {
		auth.Type = AuthNone
	}
	return base{
		kind:    opts.Kind,
		origin:  strings.TrimSuffix(strings.TrimSpace(opts.Origin), "/"),
		auth:    auth,
		client:  opts.HTTPClient,
		baseURL: strings.TrimSuffix(strings.TrimSpace(opts.BaseURL), "/"),
	}
}

func (b base) Kind() Kind     { return b.kind }
func (b base) Origin() string { return b.origin }

// originParts splits the origin into a scheme ("https:") and its path
// segments, host first.
func (b base) originParts() (string, []string) {
	return splitOrigin(b.origin)
}

func splitOrigin(origin string) (string, []string) {
	scheme := "https:"
	rest := origin
	if s, r, ok := strings.Cut(origin, "//"); ok && strings.HasPrefix(strings.ToLower(s), "http") {
		scheme, rest = strings.ToLower(s), r
	}
	var parts []string
	for _, p := range strings.Split(rest, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return scheme, parts
}

// originURL returns the origin with a scheme, e.g. "https://jira.example.com".
func (b base) originURL() string {
	scheme, parts := b.originParts()
	return scheme + "//" + strings.Join(parts, "/")
}

// endpoint returns b.baseURL when set, otherwise fallback.
func (b base) endpoint(fallback string) string {
	if b.baseURL != "" {
		return b.baseURL
	}
	return fallback
}

func (b base) get(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (b base) bearer(req *http.Request) {
	if b.auth.Type != AuthNone && b.auth.Token != "" {
		req.Header.Set("Authorization", "Bearer "+b.auth.Token)
	}
}

func (b base) instructions(text string) string {
	if b.auth.Type == AuthNone {
		return ""
	}
	return text
}

// probe issues a GET and maps 404 to ErrNotFound.
func (b base) probe(ctx context.Context, req *http.Request) error {
	resp, err := b.client.Do(req.WithContext(ctx))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, b.origin)
	case resp.StatusCode >= 400:
		return fmt.Errorf("unexpected status %d while checking %s", resp.StatusCode, b.origin)
	}
	return nil
}
