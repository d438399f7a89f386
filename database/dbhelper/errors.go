package dbhelper

import "errors"

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrFoodNotFound       = errors.New("food not found")
	ErrOrderNotFound      = errors.New("order not found")
)
