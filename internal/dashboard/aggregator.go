package dashboard

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/skybi/zoom-dashboard/internal/zoom"
	"golang.org/x/sync/errgroup"
)

// inUseThreshold is the amount of simultaneously live meetings that marks an account as in use
const inUseThreshold = 2

// TokenSource provides fresh Zoom access tokens
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Directory defines the Zoom API calls the aggregator depends on
type Directory interface {
	// LicensedUsers retrieves all licensed users in directory order
	LicensedUsers(ctx context.Context, token string) ([]*zoom.User, error)

	// UserMeetings retrieves all meetings owned by a specific user
	UserMeetings(ctx context.Context, token string, userID zoom.ID) ([]*zoom.Meeting, error)

	// LiveMeetings retrieves the set of currently live meeting IDs; it never fails
	LiveMeetings(ctx context.Context, token string) zoom.LiveSet
}

// Aggregator joins the licensed users, their no-fixed-time meetings and the live meeting set into user views
type Aggregator struct {
	Tokens    TokenSource
	Directory Directory

	// Concurrency limits the amount of parallel meeting fetches; values below 1 fetch sequentially
	Concurrency int

	// Timeout bounds a whole Build call; 0 disables it
	Timeout time.Duration
}

// Build fetches everything from scratch and assembles the user views.
// It fails with a *zoom.UpstreamAuthError if no access token could be obtained and with a *zoom.UpstreamFetchError if
// the user directory could not be fetched. Users whose meetings could not be fetched are skipped.
func (aggregator *Aggregator) Build(ctx context.Context) ([]*UserView, error) {
	if aggregator.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, aggregator.Timeout)
		defer cancel()
	}

	token, err := aggregator.Tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	users, err := aggregator.Directory.LicensedUsers(ctx, token)
	if err != nil {
		return nil, err
	}

	live := aggregator.Directory.LiveMeetings(ctx, token)

	// Every slot belongs to the user at the same directory index; skipped users leave their slot empty
	views := make([]*UserView, len(users))

	concurrency := aggregator.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	group := new(errgroup.Group)
	group.SetLimit(concurrency)
	for i, user := range users {
		i, user := i, user
		group.Go(func() error {
			meetings, err := aggregator.Directory.UserMeetings(ctx, token, user.ID)
			if err != nil {
				log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("skipping user due to an error fetching their meetings")
				return nil
			}
			views[i] = BuildUserView(user, meetings, live)
			return nil
		})
	}
	_ = group.Wait()

	result := make([]*UserView, 0, len(views))
	for _, view := range views {
		if view != nil {
			result = append(result, view)
		}
	}
	return result, nil
}

// BuildUserView assembles the view of a single user.
// Only no-fixed-time meetings are kept; the account is in use if at least two of them are live.
func BuildUserView(user *zoom.User, meetings []*zoom.Meeting, live zoom.LiveSet) *UserView {
	view := &UserView{
		UserName:          strings.TrimSpace(user.FirstName + " " + user.LastName),
		UserEmail:         user.Email,
		RecurringMeetings: []*MeetingView{},
	}
	for _, meeting := range meetings {
		if !meeting.IsNoFixedTime() {
			continue
		}
		view.RecurringMeetings = append(view.RecurringMeetings, &MeetingView{
			MeetingID: meeting.ID.String(),
			Topic:     meeting.Topic,
			JoinURL:   meeting.JoinURL,
			IsLive:    live.Has(meeting.ID),
		})
	}
	view.IsAccountInUse = view.LiveCount() >= inUseThreshold
	return view
}
