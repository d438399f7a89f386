package models

import (
	"time"
)

type Role string

const (
	RoleRestaurant Role = "RESTAURANT"
	RoleInternal   Role = "INTERNAL"
)

type Restaurant struct {
	ID        int64     `db:"id" json:"-"`
	Username  string    `db:"username" json:"username"`
	MenuID    int64     `db:"menu_id" json:"-"`
	IsOpen    bool      `db:"is_open" json:"is_open"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

type Menu struct {
	ID    int64  `db:"id" json:"-"`
	Foods []Food `db:"-" json:"foods"`
}

type Food struct {
	ID           int64   `db:"id" json:"id"`
	MenuID       int64   `db:"menu_id" json:"-"`
	Name         string  `db:"name" json:"name"`
	Price        float64 `db:"price" json:"price"`
	Availability int     `db:"availability" json:"availability"`
}

// FoodSpec is the shape a restaurant submits when adding foods to its menu.
type FoodSpec struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Availability int     `json:"availability"`
}

type Order struct {
	ID           int64       `db:"id" json:"id"`
	RestaurantID int64       `db:"restaurant_id" json:"-"`
	Customer     string      `db:"customer" json:"customer"`
	TotalPrice   float64     `db:"total_price" json:"total_price"`
	Delivered    bool        `db:"delivered" json:"status"`
	Foods        []Food      `db:"-" json:"foods"`
	CreatedAt    time.Time   `db:"created_at" json:"-"`
	Restaurant   *Restaurant `db:"-" json:"restaurant,omitempty"`
}
