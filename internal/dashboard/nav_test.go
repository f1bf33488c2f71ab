package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSidebar_Active(t *testing.T) {
	s := NewSidebar(DefaultNavItems(), nil)

	tests := []struct {
		path string
		want int
	}{
		{"/", 0},
		{"", 0},
		{"/perfil", 1},
		{"/perfil/", 1},
		{"/perfil/extra", -1},
		{"/auth", -1},
		{"/PERFIL", -1},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Active(tt.path))
		})
	}
}

func TestSidebar_ToggleAndClose(t *testing.T) {
	s := NewSidebar(DefaultNavItems(), nil)
	assert.True(t, s.IsOpen())

	assert.False(t, s.Toggle())
	assert.False(t, s.IsOpen())
	assert.True(t, s.Toggle())

	s.Close()
	assert.False(t, s.IsOpen())
	s.Close()
	assert.False(t, s.IsOpen())
}

func TestSidebar_Logout(t *testing.T) {
	calls := 0
	s := NewSidebar(DefaultNavItems(), func() { calls++ })

	assert.Equal(t, "/auth", s.Logout())
	assert.Equal(t, 1, calls)

	noop := NewSidebar(nil, nil)
	assert.Equal(t, "/auth", noop.Logout())
}

func TestDefaultNavItems(t *testing.T) {
	items := DefaultNavItems()
	if assert.Len(t, items, 2) {
		assert.Equal(t, NavItem{Label: "Dashboard", Route: "/", Icon: IconDashboard}, items[0])
		assert.Equal(t, NavItem{Label: "Perfil", Route: "/perfil", Icon: IconUser}, items[1])
	}
}
