package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
)

// Day is a single day entry from GitHub's Contribution Calendar.
// date is returned as "YYYY-MM-DD" (GitHub GraphQL).
type Day struct {
	Date              string `json:"date"`
	Weekday           int    `json:"weekday"`
	ContributionCount int    `json:"contributionCount"`
}

type Week struct {
	ContributionDays []Day `json:"contributionDays"`
}

type Calendar struct {
	TotalContributions int    `json:"totalContributions"`
	Weeks              []Week `json:"weeks"`
}

// Days flattens the week-major calendar into chronological order.
func (c Calendar) Days() []Day {
	var days []Day
	for _, w := range c.Weeks {
		days = append(days, w.ContributionDays...)
	}
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

const dateLayout = "2006-01-02"

// ValidateCalendar checks the payload before it is turned into blocks.
func ValidateCalendar(cal Calendar) error {
	for wi, w := range cal.Weeks {
		for di, d := range w.ContributionDays {
			if _, err := time.Parse(dateLayout, d.Date); err != nil {
				return &InvalidCalendarError{Week: wi, Day: di, Reason: fmt.Sprintf("invalid date %q", d.Date)}
			}
			if d.ContributionCount < 0 {
				return &InvalidCalendarError{Week: wi, Day: di, Reason: fmt.Sprintf("negative contributionCount %d on %s", d.ContributionCount, d.Date)}
			}
			if d.Weekday < 0 || d.Weekday > 6 {
				return &InvalidCalendarError{Week: wi, Day: di, Reason: fmt.Sprintf("weekday %d out of range on %s", d.Weekday, d.Date)}
			}
		}
	}
	return nil
}

func validateWeeks(weeks int) error {
	if weeks <= 0 {
		return fmt.Errorf("weeks must be > 0")
	}
	// GitHub GraphQL contributionsCollection(from,to) cannot exceed 1 year.
	if weeks > 52 {
		return fmt.Errorf("weeks must be between 1 and 52 (GitHub API limit: 1 year)")
	}
	return nil
}

func validateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("from/to must be set")
	}
	if from.After(to) {
		return fmt.Errorf("from must be <= to")
	}
	// Contributions before GitHub's launch are not meaningful.
	launch := time.Date(2008, 4, 10, 0, 0, 0, 0, time.UTC)
	if from.Before(launch) || to.Before(launch) {
		return fmt.Errorf("date range must be on/after 2008-04-10 (GitHub launch)")
	}
	// Allow up to 366 days to accommodate leap years.
	if to.Sub(from) > 366*24*time.Hour {
		return fmt.Errorf("date range must not exceed 1 year (GitHub API limit)")
	}
	return nil
}

func token() string {
	if t := os.Getenv("GITHUB_TOKEN"); t != "" {
		return t
	}
	return os.Getenv("GH_TOKEN")
}

// graphqlEndpoint is replaced in tests.
var graphqlEndpoint = "https://api.github.com/graphql"

// graphqlRequest sends a GraphQL request to GitHub's API using GITHUB_TOKEN.
func graphqlRequest(ctx context.Context, query string, variables map[string]any, result any) error {
	tok := token()
	if tok == "" {
		return &AuthError{Message: "GITHUB_TOKEN or GH_TOKEN environment variable is not set"}
	}

	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, graphqlEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthError{Message: "GitHub rejected the token (401)"}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GitHub API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var gqlResp struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		return fmt.Errorf("GraphQL error: %s", gqlResp.Errors[0].Message)
	}

	if err := json.Unmarshal(gqlResp.Data, result); err != nil {
		return fmt.Errorf("failed to parse data: %w", err)
	}

	return nil
}

// query runs a GraphQL query with the token client when a token env var is
// set, and with the gh CLI's stored credentials otherwise.
func query(ctx context.Context, q string, from, to time.Time, vars map[string]any, result any) error {
	if token() != "" {
		vars["from"] = from.UTC().Format(time.RFC3339)
		vars["to"] = to.UTC().Format(time.RFC3339)
		return graphqlRequest(ctx, q, vars, result)
	}

	client, err := api.DefaultGraphQLClient()
	if err != nil {
		return &AuthError{Message: err.Error(), cause: err}
	}
	vars["from"] = from.UTC()
	vars["to"] = to.UTC()
	return client.DoWithContext(ctx, q, vars, result)
}

const calendarFields = `
    contributionsCollection(from: $from, to: $to) {
      contributionCalendar {
        totalContributions
        weeks {
          contributionDays {
            date
            weekday
            contributionCount
          }
        }
      }
    }`

type collection struct {
	Login                   string `json:"login"`
	ContributionsCollection struct {
		ContributionCalendar Calendar `json:"contributionCalendar"`
	} `json:"contributionsCollection"`
}

func fetchViewer(ctx context.Context, from, to time.Time) (string, Calendar, error) {
	q := `
query($from: DateTime!, $to: DateTime!) {
  viewer {
    login` + calendarFields + `
  }
}`

	var resp struct {
		Viewer collection `json:"viewer"`
	}
	if err := query(ctx, q, from, to, map[string]any{}, &resp); err != nil {
		return "", Calendar{}, err
	}
	return resp.Viewer.Login, resp.Viewer.ContributionsCollection.ContributionCalendar, nil
}

func fetchUser(ctx context.Context, login string, from, to time.Time) (string, Calendar, error) {
	q := `
query($login: String!, $from: DateTime!, $to: DateTime!) {
  user(login: $login) {
    login` + calendarFields + `
  }
}`

	var resp struct {
		User *collection `json:"user"`
	}
	if err := query(ctx, q, from, to, map[string]any{"login": login}, &resp); err != nil {
		if isGraphQLUserNotFound(err) {
			return "", Calendar{}, &UserNotFoundError{Login: login, cause: err}
		}
		return "", Calendar{}, err
	}
	if resp.User == nil || resp.User.Login == "" {
		return "", Calendar{}, &UserNotFoundError{Login: login}
	}
	return resp.User.Login, resp.User.ContributionsCollection.ContributionCalendar, nil
}

// FetchViewerContributionCalendar returns the logged-in user's login and a contribution calendar
// covering the past N weeks ending now.
func FetchViewerContributionCalendar(ctx context.Context, weeks int) (string, Calendar, error) {
	if err := validateWeeks(weeks); err != nil {
		return "", Calendar{}, err
	}
	to := time.Now().UTC()
	return fetchViewer(ctx, to.AddDate(0, 0, -7*weeks), to)
}

// FetchUserContributionCalendar returns the given user's login and a contribution calendar
// covering the past N weeks ending now.
func FetchUserContributionCalendar(ctx context.Context, login string, weeks int) (string, Calendar, error) {
	if login == "" {
		return "", Calendar{}, fmt.Errorf("user login must not be empty")
	}
	if err := validateWeeks(weeks); err != nil {
		return "", Calendar{}, err
	}
	to := time.Now().UTC()
	return fetchUser(ctx, login, to.AddDate(0, 0, -7*weeks), to)
}

// FetchViewerContributionCalendarRange returns the logged-in user's login and a contribution calendar
// covering the given [from,to] (must not exceed 1 year).
func FetchViewerContributionCalendarRange(ctx context.Context, from, to time.Time) (string, Calendar, error) {
	if err := validateRange(from, to); err != nil {
		return "", Calendar{}, err
	}
	return fetchViewer(ctx, from, to)
}

// FetchUserContributionCalendarRange returns the given user's login and a contribution calendar
// covering the given [from,to] (must not exceed 1 year).
func FetchUserContributionCalendarRange(ctx context.Context, login string, from, to time.Time) (string, Calendar, error) {
	if login == "" {
		return "", Calendar{}, fmt.Errorf("user login must not be empty")
	}
	if err := validateRange(from, to); err != nil {
		return "", Calendar{}, err
	}
	return fetchUser(ctx, login, from, to)
}
