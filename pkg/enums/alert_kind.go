package enums

// AlertKind identifies the rule that produced a derived alert.
type AlertKind string

const (
	AlertKindLost    AlertKind = "lost"
	AlertKindOverdue AlertKind = "overdue"
)
