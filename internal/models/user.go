package models

// User identifies an owner of holdings and snapshots. There is no ownership
// transfer; the id is stable for the life of the row.
type User struct {
	UserID      string `db:"user_id" json:"user_id"`
	DisplayName string `db:"display_name" json:"display_name"`
	Email       string `db:"email" json:"email"`
}
