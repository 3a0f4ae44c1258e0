package messages

import (
	"strconv"
	"strings"
)

// Dialogue carries one question/answer exchange on a puzzle.
type Dialogue struct {
	ID       int    `json:"id"`
	PuzzleID int    `json:"puzzle_id"`
	UserID   int    `json:"user_id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Good     bool   `json:"good"`
	True     bool   `json:"true"`
}

// DialogueEvent is published after a dialogue row is inserted or updated,
// both on the global dialogue channel and on per-puzzle topics.
type DialogueEvent struct {
	Op       Op       `json:"op"`
	Dialogue Dialogue `json:"dialogue"`
}

// NewDialogueCreated builds the event for a freshly asked question.
func NewDialogueCreated(d Dialogue) DialogueEvent {
	return DialogueEvent{Op: OpCreated, Dialogue: d}
}

// NewDialogueUpdated builds the event for an edited or answered question.
func NewDialogueUpdated(d Dialogue) DialogueEvent {
	return DialogueEvent{Op: OpUpdated, Dialogue: d}
}

// DialogueTopic is the per-puzzle topic key for dialogue events. Clients on
// a puzzle page subscribe here instead of the global channel.
func DialogueTopic(puzzleID int) string {
	return "puzzle:" + strconv.Itoa(puzzleID)
}

// DialogueUserTopic narrows a puzzle's dialogue topic to one participant.
// Used for yami puzzles where a participant may only see their own
// exchanges.
func DialogueUserTopic(puzzleID, userID int) string {
	return DialogueTopic(puzzleID) + ":user:" + strconv.Itoa(userID)
}

// DialogueTopicMatcher matches every topic scoped to the given puzzle,
// including per-user ones. Suitable for Broker.PublishToAll.
func DialogueTopicMatcher(puzzleID int) func(key string) bool {
	exact := DialogueTopic(puzzleID)
	prefix := exact + ":"
	return func(key string) bool {
		return key == exact || strings.HasPrefix(key, prefix)
	}
}
