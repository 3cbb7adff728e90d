package models

// Staff mewakili data dari tabel staff.
type Staff struct {
	IDStaff    int      `json:"id_staff" db:"id_staff"`
	Nama       string   `json:"nama" db:"nama"`
	Username   string   `json:"username" db:"username"`
	Password   string   `json:"-" db:"password"`
	Role       string   `json:"role" db:"role"`
	Privileges []string `json:"privileges"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
