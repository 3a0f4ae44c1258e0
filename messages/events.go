package messages

// Op tells subscribers which kind of write produced an event.
type Op string

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
)
