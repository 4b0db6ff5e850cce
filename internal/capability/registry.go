package capability

// Capability identifies a single named permission an employee may be granted,
// distinct from the coarse account role. The set is closed: identifiers
// outside this registry are rejected at the grant boundary.
type Capability string

const (
	ManageEmployees    Capability = "manage_employees"
	ManageClients      Capability = "manage_clients"
	ManageProjects     Capability = "manage_projects"
	AssignProjects     Capability = "assign_projects"
	ReviewDailyUpdates Capability = "review_daily_updates"
	ManageChecklists   Capability = "manage_checklists"
	ViewLeaderboard    Capability = "view_leaderboard"
	ExportReports      Capability = "export_reports"
	SendAnnouncements  Capability = "send_announcements"
	ManagePermissions  Capability = "manage_permissions"
)

// Category groups capabilities for presentation in the admin UI. Grouping
// carries no authorization semantics.
type Category struct {
	Name         string       `json:"name"`
	Capabilities []Capability `json:"capabilities"`
}

var categories = []Category{
	{Name: "People", Capabilities: []Capability{ManageEmployees, ManageClients}},
	{Name: "Workflow", Capabilities: []Capability{ManageProjects, AssignProjects, ReviewDailyUpdates, ManageChecklists}},
	{Name: "Reporting", Capabilities: []Capability{ViewLeaderboard, ExportReports}},
	{Name: "Administration", Capabilities: []Capability{SendAnnouncements, ManagePermissions}},
}

var registry = buildRegistry()

func buildRegistry() map[Capability]struct{} {
	set := make(map[Capability]struct{})
	for _, cat := range categories {
		for _, c := range cat.Capabilities {
			set[c] = struct{}{}
		}
	}
	return set
}

// IsValid reports whether c is a member of the registry.
func IsValid(c Capability) bool {
	_, ok := registry[c]
	return ok
}

// All returns every registered capability in presentation order.
func All() []Capability {
	out := make([]Capability, 0, len(registry))
	for _, cat := range categories {
		out = append(out, cat.Capabilities...)
	}
	return out
}

// Categories returns the capability groupings in presentation order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}
