package model

// Mode tags what a modal form is doing with its draft.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
	// ModeView shows the draft read only; there is no save action.
	ModeView
)

func (m Mode) String() string {
	switch m {
	case ModeEdit:
		return "edit"
	case ModeView:
		return "view"
	default:
		return "create"
	}
}

// ParseMode maps a form value to a Mode, defaulting to edit as the doctor cards do.
func ParseMode(s string) Mode {
	switch s {
	case "view":
		return ModeView
	case "create":
		return ModeCreate
	default:
		return ModeEdit
	}
}

// Stat is one dashboard counter.
type Stat struct {
	Title string
	Value int
}

// DashboardStats are fixed figures; the dashboard has no data source yet.
func DashboardStats() []Stat {
	return []Stat{
		{Title: "Total Appointments", Value: 120},
		{Title: "Active Patients", Value: 80},
		{Title: "Pending Invoices", Value: 10},
	}
}
