package entity

type Address struct {
	ID        int    `json:"id"`
	UserID    int    `json:"user_id"`
	Street    string `json:"street"`
	Building  string `json:"building"`
	Floor     string `json:"floor"`
	Apartment string `json:"apartment"`
}
