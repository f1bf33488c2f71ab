package dashboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	cards := Stats()
	require.Len(t, cards, 4)
	assert.Equal(t, "Receita Total", cards[0].Title)
	assert.Equal(t, "R$ 45.231", cards[0].Value)
	assert.Equal(t, "Taxa de Conversão", cards[3].Title)
	for _, c := range cards {
		assert.True(t, strings.HasPrefix(c.Change, "+"), c.Title)
		assert.NotEmpty(t, c.Icon, c.Title)
	}
}

func TestSeries(t *testing.T) {
	sales := MonthlySales()
	assert.Equal(t, []string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun"}, sales.Labels())
	assert.Equal(t, 6000.0, sales.Points[4].Value)

	users := WeeklyActiveUsers()
	assert.Len(t, users.Points, 7)
	assert.Equal(t, "Dom", users.Points[6].Label)
}

func TestChartRenderer_Render(t *testing.T) {
	r := NewChartRenderer("", "")

	for _, name := range ChartNames() {
		t.Run(name, func(t *testing.T) {
			html, err := r.Render(name)
			require.NoError(t, err)
			assert.Contains(t, html, "chart-"+name)
			assert.Contains(t, html, chartSpecs[name].title)

			again, err := r.Render(name)
			require.NoError(t, err)
			assert.Equal(t, html, again)
		})
	}
}

func TestChartRenderer_Unknown(t *testing.T) {
	_, err := NewChartRenderer("", "").Render("receitas")
	assert.EqualError(t, err, "unknown chart: receitas")
}

func TestChartNames(t *testing.T) {
	assert.Equal(t, []string{ChartUsers, ChartSales}, ChartNames())
}
