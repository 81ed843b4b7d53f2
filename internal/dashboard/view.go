package dashboard

// UserView represents the presentation-ready status of a single licensed user
type UserView struct {
	UserName          string         `json:"userName"`
	UserEmail         string         `json:"userEmail"`
	IsAccountInUse    bool           `json:"isAccountInUse"`
	RecurringMeetings []*MeetingView `json:"recurringMeetings"`
}

// MeetingView represents a single no-fixed-time meeting of a user annotated with its live status
type MeetingView struct {
	MeetingID string `json:"meetingId"`
	Topic     string `json:"topic"`
	JoinURL   string `json:"joinUrl"`
	IsLive    bool   `json:"isLive"`
}

// LiveCount counts the meetings of the user that are currently live
func (view *UserView) LiveCount() int {
	n := 0
	for _, meeting := range view.RecurringMeetings {
		if meeting.IsLive {
			n++
		}
	}
	return n
}
