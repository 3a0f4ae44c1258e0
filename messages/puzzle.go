package messages

// Status is the lifecycle state of a puzzle.
type Status int

const (
	StatusUndergoing Status = iota
	StatusSolved
	StatusDazed
	StatusHidden
	StatusForcedHidden
)

// Yami marks puzzles whose dialogues are hidden from other participants
// until the puzzle is solved.
type Yami int

const (
	YamiNone Yami = iota
	YamiNormal
	YamiLongterm
)

// Genre classifies a puzzle.
type Genre int

const (
	GenreClassic Genre = iota
	GenreTwentyQuestions
	GenreLittleAlbat
	GenreOthers
)

// Puzzle carries the puzzle row fields live-update consumers read or filter
// on. It is a trimmed view of the stored model, not the ORM entity.
type Puzzle struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Status Status `json:"status"`
	Yami   Yami   `json:"yami"`
	Genre  Genre  `json:"genre"`
	UserID int    `json:"user_id"`
}

// PuzzleEvent is the payload published on the puzzle broadcast channel after
// a successful puzzle write.
type PuzzleEvent struct {
	Op     Op     `json:"op"`
	Puzzle Puzzle `json:"puzzle"`
	// Previous is the row before the write; set only for OpUpdated.
	Previous *Puzzle `json:"previous,omitempty"`
}

// NewPuzzleCreated builds the event for a freshly inserted puzzle.
func NewPuzzleCreated(p Puzzle) PuzzleEvent {
	return PuzzleEvent{Op: OpCreated, Puzzle: p}
}

// NewPuzzleUpdated builds the event for an updated puzzle. prev is the row
// as it was before the write.
func NewPuzzleUpdated(prev, curr Puzzle) PuzzleEvent {
	return PuzzleEvent{Op: OpUpdated, Puzzle: curr, Previous: &prev}
}

// PuzzleFilter selects which puzzle events a subscriber wants to observe.
// Only the first populated field is consulted; an empty filter matches
// everything.
type PuzzleFilter struct {
	ID     *int
	Status *Status
	Yami   *Yami
	Genre  *Genre
}

// Match reports whether ev passes the filter. Updated events are matched
// against the pre-update row, so a subscriber watching undergoing puzzles
// still observes the update that solves one.
func (f PuzzleFilter) Match(ev PuzzleEvent) bool {
	row := ev.Puzzle
	if ev.Op == OpUpdated && ev.Previous != nil {
		row = *ev.Previous
	}

	switch {
	case f.ID != nil:
		return *f.ID == row.ID
	case f.Status != nil:
		return *f.Status == row.Status
	case f.Yami != nil:
		return *f.Yami == row.Yami
	case f.Genre != nil:
		return *f.Genre == row.Genre
	default:
		return true
	}
}
