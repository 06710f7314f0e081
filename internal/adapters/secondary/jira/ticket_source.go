package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/crewpulse/workload-backend/internal/core/domain"
	"github.com/crewpulse/workload-backend/internal/core/ports"
)

// Default custom field for story points on Jira Cloud. Overridable for
// instances that map story points elsewhere.
const defaultStoryPointsField = "customfield_10016"

// TicketSource fetches per-member workload snapshots from the Jira REST API.
type TicketSource struct {
	baseURL          string
	email            string
	apiToken         string
	storyPointsField string
	httpClient       *http.Client
	logger           *slog.Logger
}

var _ ports.TicketSource = (*TicketSource)(nil)

// Config holds the settings for the Jira ticket source.
type Config struct {
	BaseURL          string
	Email            string
	APIToken         string
	StoryPointsField string
	Timeout          time.Duration
}

// NewTicketSource creates a Jira-backed ticket source.
func NewTicketSource(cfg Config, logger *slog.Logger) *TicketSource {
	storyPointsField := cfg.StoryPointsField
	if storyPointsField == "" {
		storyPointsField = defaultStoryPointsField
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &TicketSource{
		baseURL:          strings.TrimSuffix(cfg.BaseURL, "/"),
		email:            cfg.Email,
		apiToken:         cfg.APIToken,
		storyPointsField: storyPointsField,
		httpClient:       &http.Client{Timeout: timeout},
		logger:           logger.With("component", "jira_ticket_source"),
	}
}

// searchResponse is the top-level container for Jira search results.
type searchResponse struct {
	Total  int     `json:"total"`
	Issues []issue `json:"issues"`
}

type issue struct {
	Key    string `json:"key"`
	Fields struct {
		Priority struct {
			Name string `json:"name"`
		} `json:"priority"`
		DueDate      string `json:"duedate"`
		TimeEstimate int    `json:"timeoriginalestimate"`
	} `json:"fields"`
	// Raw fields payload, re-parsed for the story points custom field.
	RawFields json.RawMessage `json:"-"`
}

// UnmarshalJSON keeps a copy of the raw fields object so the configurable
// story points field can be read after the typed decode.
func (i *issue) UnmarshalJSON(data []byte) error {
	type alias issue
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*i = issue(a)

	var envelope struct {
		Fields json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	i.RawFields = envelope.Fields
	return nil
}

func (i *issue) storyPoints(field string) int {
	if len(i.RawFields) == 0 {
		return 0
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(i.RawFields, &fields); err != nil {
		return 0
	}
	raw, ok := fields[field]
	if !ok {
		return 0
	}
	var points float64
	if err := json.Unmarshal(raw, &points); err != nil {
		return 0
	}
	return int(points)
}

// GetMemberWorkload queries Jira for the member's open assignments and folds
// them into a workload snapshot. A member with no open tickets (including
// one Jira has never seen) yields a zero snapshot.
func (s *TicketSource) GetMemberWorkload(ctx context.Context, userID, teamID string) (*domain.MemberWorkload, error) {
	jql := fmt.Sprintf(`assignee = %q AND statusCategory != Done`, userID)

	params := url.Values{}
	params.Set("jql", jql)
	params.Set("maxResults", "100")
	params.Set("fields", strings.Join([]string{
		"priority", "duedate", "timeoriginalestimate", s.storyPointsField,
	}, ","))

	searchURL := fmt.Sprintf("%s/rest/api/2/search?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build jira request: %w", err)
	}
	req.SetBasicAuth(s.email, s.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jira request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("jira authentication failed: status %d", resp.StatusCode)
		case http.StatusTooManyRequests:
			return nil, fmt.Errorf("jira rate limit exceeded: status %d", resp.StatusCode)
		default:
			return nil, fmt.Errorf("jira returned status %d", resp.StatusCode)
		}
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode jira response: %w", err)
	}

	workload := s.foldIssues(result.Issues)

	s.logger.Debug("fetched member workload",
		"user_id", userID,
		"team_id", teamID,
		"active_tickets", workload.ActiveTickets,
	)
	return workload, nil
}

// foldIssues aggregates open issues into a single workload snapshot.
func (s *TicketSource) foldIssues(issues []issue) *domain.MemberWorkload {
	workload := &domain.MemberWorkload{}
	now := time.Now()

	for _, iss := range issues {
		workload.ActiveTickets++
		workload.TotalStoryPoints += iss.storyPoints(s.storyPointsField)

		// Jira reports original estimates in seconds.
		if iss.Fields.TimeEstimate > 0 {
			workload.EstimatedHours += float64(iss.Fields.TimeEstimate) / 3600.0
		}

		if isHighPriority(iss.Fields.Priority.Name) {
			workload.HighPriorityTickets++
		}

		if iss.Fields.DueDate != "" {
			due, err := time.Parse("2006-01-02", iss.Fields.DueDate)
			if err == nil && due.Before(now) {
				workload.OverdueTickets++
			}
		}
	}

	return workload
}

func isHighPriority(priority string) bool {
	switch strings.ToLower(priority) {
	case "highest", "high", "critical", "blocker", "urgent":
		return true
	}
	return false
}
