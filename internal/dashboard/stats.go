package dashboard

// StatCard is one headline figure on the dashboard.
type StatCard struct {
	Title  string `json:"title"`
	Value  string `json:"value"`
	Change string `json:"change"`
	Icon   Icon   `json:"icon"`
}

// Point is one labelled value in a chart series.
type Point struct {
	Label string  `json:"name"`
	Value float64 `json:"value"`
}

// Series is a named sequence of points.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Stats returns the mock headline figures.
func Stats() []StatCard {
	return []StatCard{
		{Title: "Receita Total", Value: "R$ 45.231", Change: "+20.1%", Icon: IconInvoices},
		{Title: "Usuários Ativos", Value: "2.350", Change: "+15.3%", Icon: IconUsers},
		{Title: "Vendas", Value: "1.453", Change: "+8.2%", Icon: IconCart},
		{Title: "Taxa de Conversão", Value: "3.2%", Change: "+2.5%", Icon: IconTrending},
	}
}

// MonthlySales is the mock sales series for the last six months.
func MonthlySales() Series {
	return Series{
		Name: "valor",
		Points: []Point{
			{Label: "Jan", Value: 4000},
			{Label: "Fev", Value: 3000},
			{Label: "Mar", Value: 5000},
			{Label: "Abr", Value: 4500},
			{Label: "Mai", Value: 6000},
			{Label: "Jun", Value: 5500},
		},
	}
}

// WeeklyActiveUsers is the mock active-user series for the last week.
func WeeklyActiveUsers() Series {
	return Series{
		Name: "usuarios",
		Points: []Point{
			{Label: "Seg", Value: 120},
			{Label: "Ter", Value: 150},
			{Label: "Qua", Value: 180},
			{Label: "Qui", Value: 140},
			{Label: "Sex", Value: 200},
			{Label: "Sáb", Value: 170},
			{Label: "Dom", Value: 160},
		},
	}
}

// Labels returns the x-axis labels of s.
func (s Series) Labels() []string {
	labels := make([]string, len(s.Points))
	for i, p := range s.Points {
		labels[i] = p.Label
	}
	return labels
}
