package zoom

import (
	"bytes"
	"encoding/json"
	"errors"
)

const (
	// UserTypeLicensed marks a user holding a paid Zoom licence
	UserTypeLicensed = 2

	// MeetingTypeNoFixedTime marks a recurring meeting without a scheduled start time
	MeetingTypeNoFixedTime = 3
)

var errInvalidID = errors.New("identifier is neither a JSON string nor a JSON number")

// ID represents a Zoom identifier.
// Zoom encodes user IDs as strings and meeting IDs as numbers; both are kept in their textual form.
type ID string

// UnmarshalJSON accepts both JSON strings and JSON numbers
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*id = ID(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return errInvalidID
	}
	*id = ID(num.String())
	return nil
}

// String returns the textual representation of the ID
func (id ID) String() string {
	return string(id)
}

// User represents a single entry of the Zoom user directory
type User struct {
	ID        ID     `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Type      int    `json:"type"`
}

// IsLicensed checks whether the user holds a paid licence
func (user *User) IsLicensed() bool {
	return user.Type == UserTypeLicensed
}

// Meeting represents a meeting owned by a Zoom user
type Meeting struct {
	ID      ID     `json:"id"`
	Topic   string `json:"topic"`
	JoinURL string `json:"join_url"`
	Type    int    `json:"type"`
}

// IsNoFixedTime checks whether the meeting is a recurring meeting without a fixed time
func (meeting *Meeting) IsNoFixedTime() bool {
	return meeting.Type == MeetingTypeNoFixedTime
}

// LiveSet holds the IDs of all meetings Zoom currently reports as live
type LiveSet map[string]struct{}

// Has checks whether the meeting with the given ID is live
func (set LiveSet) Has(id ID) bool {
	_, ok := set[id.String()]
	return ok
}

type userListResponse struct {
	Users []*User `json:"users"`
}

type meetingListResponse struct {
	Meetings []*Meeting `json:"meetings"`
}

type liveMeetingListResponse struct {
	Meetings []struct {
		ID ID `json:"id"`
	} `json:"meetings"`
}
