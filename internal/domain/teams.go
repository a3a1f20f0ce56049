package domain

// Team groups tasks by the assignedTo identifier. Teams are a fixed roster,
// not a persisted entity.
type Team struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"fullName"`
}

var teams = []Team{
	{ID: "POL-D", Name: "POL-D", FullName: "Polish Dayshift"},
	{ID: "PRT-D", Name: "PRT-D", FullName: "Portuguese Dayshift"},
	{ID: "PRT-E", Name: "PRT-E", FullName: "Portuguese Evening"},
	{ID: "PL-E", Name: "PL-E", FullName: "Polish Evening"},
	{ID: "METR", Name: "METR", FullName: "Metrica Evening"},
}

// Teams returns the full team roster.
func Teams() []Team {
	out := make([]Team, len(teams))
	copy(out, teams)
	return out
}

// TeamByID looks up a team by its identifier. The second return value is
// false for unknown ids; tasks may still reference such ids freely.
func TeamByID(id string) (Team, bool) {
	for _, t := range teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}
