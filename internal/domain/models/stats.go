package models

type Counts struct {
	Total      int `json:"total"`
	Breakfasts int `json:"desayunos"`
	Lunches    int `json:"almuerzos"`
}

type Chart struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

type Table struct {
	Filter       string  `json:"filter,omitempty"`
	Rows         []Visit `json:"rows"`
	EmptyMessage string  `json:"empty_message,omitempty"`
}

type Dashboard struct {
	Date   string `json:"fecha"`
	Counts Counts `json:"counts"`
	Chart  Chart  `json:"chart"`
	Table  Table  `json:"table"`
}
