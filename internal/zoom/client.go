package zoom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Client performs the read-only calls against the Zoom REST API
type Client struct {
	baseURL    string
	httpClient *http.Client

	UsersPageSize        int
	MeetingsPageSize     int
	LiveMeetingsPageSize int
}

// NewClient creates a new Zoom API client using the default page sizes.
// A nil httpClient falls back to http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:              strings.TrimSuffix(baseURL, "/"),
		httpClient:           httpClient,
		UsersPageSize:        300,
		MeetingsPageSize:     300,
		LiveMeetingsPageSize: 30,
	}
}

// LicensedUsers retrieves the first page of the user directory and returns the licensed users in directory order
func (client *Client) LicensedUsers(ctx context.Context, token string) ([]*User, error) {
	query := url.Values{"page_size": {strconv.Itoa(client.UsersPageSize)}}

	response := new(userListResponse)
	if err := client.get(ctx, token, "/users", query, response); err != nil {
		return nil, err
	}

	licensed := make([]*User, 0, len(response.Users))
	for _, user := range response.Users {
		if user != nil && user.IsLicensed() {
			licensed = append(licensed, user)
		}
	}
	log.Debug().Int("total", len(response.Users)).Int("licensed", len(licensed)).Msg("fetched the Zoom user directory")
	return licensed, nil
}

// UserMeetings retrieves the first page of meetings owned by a specific user
func (client *Client) UserMeetings(ctx context.Context, token string, userID ID) ([]*Meeting, error) {
	query := url.Values{"page_size": {strconv.Itoa(client.MeetingsPageSize)}}

	response := new(meetingListResponse)
	if err := client.get(ctx, token, "/users/"+url.PathEscape(userID.String())+"/meetings", query, response); err != nil {
		return nil, err
	}

	meetings := make([]*Meeting, 0, len(response.Meetings))
	for _, meeting := range response.Meetings {
		if meeting != nil {
			meetings = append(meetings, meeting)
		}
	}
	return meetings, nil
}

// LiveMeetings retrieves the IDs of all meetings of the account that are currently live.
// Any failure is logged and results in an empty set.
func (client *Client) LiveMeetings(ctx context.Context, token string) LiveSet {
	query := url.Values{
		"type":      {"live"},
		"page_size": {strconv.Itoa(client.LiveMeetingsPageSize)},
	}

	response := new(liveMeetingListResponse)
	if err := client.get(ctx, token, "/metrics/meetings", query, response); err != nil {
		log.Error().Err(err).Msg("could not fetch the live Zoom meetings; treating all meetings as not live")
		return LiveSet{}
	}

	set := make(LiveSet, len(response.Meetings))
	for _, meeting := range response.Meetings {
		if meeting.ID != "" {
			set[meeting.ID.String()] = struct{}{}
		}
	}
	log.Debug().Int("live", len(set)).Msg("fetched the live Zoom meetings")
	return set
}

func (client *Client) get(ctx context.Context, token, path string, query url.Values, target any) error {
	endpoint := client.baseURL + path
	fail := func(status int, err error) error {
		return &UpstreamFetchError{Wrapping: err, Endpoint: path, Status: status}
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return fail(0, err)
	}
	(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(request)
	request.Header.Set("Accept", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fail(0, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return fail(response.StatusCode, err)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fail(response.StatusCode, fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body))))
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fail(response.StatusCode, fmt.Errorf("could not decode response: %w", err))
	}
	return nil
}
