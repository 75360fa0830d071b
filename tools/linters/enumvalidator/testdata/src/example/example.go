package example

type MeetingStatus string

const (
	MeetingStatusScheduled MeetingStatus = "scheduled"
	MeetingStatusReady     MeetingStatus = "ready"
)

type Priority string

const (
	PriorityHigh Priority = "High"
)

type Meeting struct {
	Status MeetingStatus
}

type ActionItem struct {
	Task     string
	Priority Priority
}

func bad() {
	m := &Meeting{}
	m.Status = "done" // want "enum field Status assigned string literal"

	a := &ActionItem{}
	a.Priority = "Urgent" // want "enum field Priority assigned string literal"

	_ = ActionItem{Task: "ship", Priority: "High"} // want "enum field Priority assigned string literal"
}

func good() {
	m := &Meeting{}
	m.Status = MeetingStatusReady // OK: using constant

	a := ActionItem{Task: "ship", Priority: PriorityHigh} // OK: plain string field
	_ = a
}

func alsoGood() {
	// OK: Variable, not literal
	status := MeetingStatusScheduled
	m := &Meeting{Status: status}
	_ = m
}
