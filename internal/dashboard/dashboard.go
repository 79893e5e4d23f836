package dashboard

import "time"

// RecentExpense is one row of the dashboard's latest-spend list, read from
// the gastos_detalhados view so project and category names come pre-joined.
type RecentExpense struct {
	ID          int64     `json:"id"`
	Description string    `json:"descricao"`
	Amount      float64   `json:"valor"`
	ExpenseDate time.Time `json:"data_gasto"`
	ProjectName string    `json:"projeto_nome"`
	Category    string    `json:"categoria"`
}

// CategoryTotal is a raw per-category sum as it comes off the wire, with the
// category's display color joined in. The amount stays untyped until the
// service coerces it.
type CategoryTotal struct {
	Name   string
	Color  string
	Amount interface{}
}

type CategorySummary struct {
	Name  string  `json:"nome"`
	Color string  `json:"cor"`
	Total float64 `json:"total"`
}

// Dashboard is the home screen payload. Every section degrades to its zero
// value independently; one failed read never blanks the others.
type Dashboard struct {
	MonthTotal     float64           `json:"total_mes"`
	AllTimeTotal   float64           `json:"total_geral"`
	ActiveProjects int64             `json:"projetos_ativos"`
	RecentExpenses []RecentExpense   `json:"gastos_recentes"`
	TopCategories  []CategorySummary `json:"categorias_top"`
}
