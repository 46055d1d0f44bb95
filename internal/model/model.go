package model

// Segment is the body of one output file, taken from the text following its
// delimiter line.
type Segment struct {
	Path    string
	Content string
}

// Action is what happened to a single destination file.
type Action string

const (
	ActionCreate Action = "create"
	ActionModify Action = "modify"
	ActionSkip   Action = "skip"
)

// Summary holds the results of an operation for display.
type Summary struct {
	Dir      string
	Created  []string
	Modified []string
	Skipped  []string
	Failed   []string
	Errors   []error
	Message  string
	Canceled bool
}

// Written returns the number of files that were created or overwritten.
func (s Summary) Written() int {
	return len(s.Created) + len(s.Modified)
}
