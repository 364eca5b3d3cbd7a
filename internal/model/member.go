package model

import "time"

type Member struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	HouseholdSize int       `db:"household_size" json:"householdSize"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

type Branch struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Location string `db:"location" json:"location"`
}
