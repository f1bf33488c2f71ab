// Package dashboard holds the presentational collaborators of the admin
// dashboard: navigation, stat cards, charts and the profile form. Each
// stateful type here belongs to one page instance.
package dashboard

import (
	"strings"
	"sync"
)

// Icon names a sidebar glyph. The web layer maps it to markup.
type Icon string

const (
	IconDashboard Icon = "layout-dashboard"
	IconUser      Icon = "user"
	IconUsers     Icon = "users"
	IconInvoices  Icon = "dollar-sign"
	IconTrending  Icon = "trending-up"
	IconCart      Icon = "shopping-cart"
	IconLogout    Icon = "log-out"
)

// NavItem is one sidebar entry.
type NavItem struct {
	Label string `json:"label"`
	Route string `json:"route"`
	Icon  Icon   `json:"icon"`
}

// DefaultNavItems are the routes the service serves.
func DefaultNavItems() []NavItem {
	return []NavItem{
		{Label: "Dashboard", Route: "/", Icon: IconDashboard},
		{Label: "Perfil", Route: "/perfil", Icon: IconUser},
	}
}

// Sidebar is the shared navigation component. Open/closed is per instance.
type Sidebar struct {
	Title       string
	Subtitle    string
	Items       []NavItem
	LogoutLabel string
	LogoutRoute string

	onLogout func()

	mu   sync.Mutex
	open bool
}

// NewSidebar builds an open sidebar. onLogout may be nil.
func NewSidebar(items []NavItem, onLogout func()) *Sidebar {
	return &Sidebar{
		Title:       "Dashboard",
		Subtitle:    "Sistema de Gestão",
		Items:       items,
		LogoutLabel: "Sair",
		LogoutRoute: "/auth",
		onLogout:    onLogout,
		open:        true,
	}
}

// Toggle flips the open state and returns the new value.
func (s *Sidebar) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = !s.open
	return s.open
}

// Close hides the sidebar (the mobile overlay click).
func (s *Sidebar) Close() {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
}

func (s *Sidebar) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Logout runs the logout callback and returns where to go next.
func (s *Sidebar) Logout() string {
	if s.onLogout != nil {
		s.onLogout()
	}
	return s.LogoutRoute
}

// Active returns the index of the item matching path exactly, or -1.
// Trailing slashes are ignored except on the root route.
func (s *Sidebar) Active(path string) int {
	path = normalizeRoute(path)
	for i, item := range s.Items {
		if normalizeRoute(item.Route) == path {
			return i
		}
	}
	return -1
}

func normalizeRoute(p string) string {
	if p == "" {
		return "/"
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			return "/"
		}
	}
	return p
}
