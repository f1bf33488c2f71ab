package templates

import (
	"github.com/JonMunkholm/scizon/internal/dashboard"
	"github.com/JonMunkholm/scizon/internal/importer"
)

// Page is the chrome shared by every dashboard route.
type Page struct {
	Title   string
	Path    string
	Sidebar *dashboard.Sidebar
	User    dashboard.Profile
}

// DashboardData is everything the dashboard body shows.
type DashboardData struct {
	Stats  []dashboard.StatCard
	Charts []string
	Import importer.Snapshot
	Accept string
}

// ProfileData is the state of the profile form.
type ProfileData struct {
	Form   dashboard.Profile
	Errors dashboard.ValidationErrors
	Toast  *dashboard.Toast
	Saving bool
}

type navLink struct {
	Label  string
	Route  string
	Icon   dashboard.Icon
	Active bool
}

func navLinks(s *dashboard.Sidebar, path string) []navLink {
	active := s.Active(path)
	links := make([]navLink, len(s.Items))
	for i, item := range s.Items {
		links[i] = navLink{Label: item.Label, Route: item.Route, Icon: item.Icon, Active: i == active}
	}
	return links
}

type profileField struct {
	name      string
	label     string
	inputType string
	value     string
}

func profileFields(p dashboard.Profile) []profileField {
	return []profileField{
		{"firstName", "Nome", "text", p.FirstName},
		{"lastName", "Sobrenome", "text", p.LastName},
		{"email", "Email", "email", p.Email},
		{"phone", "Telefone", "tel", p.Phone},
		{"address", "Endereço", "text", p.Address},
	}
}
