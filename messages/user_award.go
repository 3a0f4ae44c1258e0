package messages

import (
	"strconv"
	"time"
)

// UserAward is the grant of one award to one user.
type UserAward struct {
	ID      int       `json:"id"`
	UserID  int       `json:"user_id"`
	AwardID int       `json:"award_id"`
	Created time.Time `json:"created"`
}

// UserAwardEvent is published when an award is granted or revised.
type UserAwardEvent struct {
	Op        Op        `json:"op"`
	UserAward UserAward `json:"user_award"`
}

// NewUserAwardGranted builds the event for a freshly granted award.
func NewUserAwardGranted(ua UserAward) UserAwardEvent {
	return UserAwardEvent{Op: OpCreated, UserAward: ua}
}

// UserAwardTopic is the per-recipient topic key for award events, so a
// client can watch its own profile without the global feed.
func UserAwardTopic(userID int) string {
	return "user:" + strconv.Itoa(userID)
}
