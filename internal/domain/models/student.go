package models

type Student struct {
	RUT    string `db:"rut" json:"rut"`
	Name   string `db:"nombre" json:"nombre"`
	Course string `db:"curso" json:"curso"`
	Photo  string `db:"foto" json:"foto"`
}

type RosterStatus struct {
	Size int  `json:"size"`
	Demo bool `json:"demo"`
}
