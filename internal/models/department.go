package models

// Department is read-only from the engine's perspective; it is managed by
// administrative CRUD outside this module's scope.
type Department struct {
	ID       string `db:"id" json:"id"`
	Code     string `db:"code" json:"code"`
	Name     string `db:"name" json:"name"`
	IsActive bool   `db:"is_active" json:"is_active"`
}
