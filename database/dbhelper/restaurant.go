package dbhelper

import (
	"database/sql"
	"errors"

	"github.com/sajadkh/restaurant-panel/database"
	"github.com/sajadkh/restaurant-panel/models"
)

func GetRestaurantByUsername(username string) (*models.Restaurant, error) {
	var rest models.Restaurant
	err := database.Panel.QueryRow(`
		SELECT id, username, menu_id, is_open, created_at
		FROM restaurants
		WHERE username = $1`, username).
		Scan(&rest.ID, &rest.Username, &rest.MenuID, &rest.IsOpen, &rest.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

func ListRestaurants() ([]models.Restaurant, error) {
	rows, err := database.Panel.Query(`
		SELECT id, username, menu_id, is_open, created_at
		FROM restaurants
		ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restaurants := make([]models.Restaurant, 0)
	for rows.Next() {
		var rest models.Restaurant
		if err := rows.Scan(&rest.ID, &rest.Username, &rest.MenuID, &rest.IsOpen, &rest.CreatedAt); err != nil {
			return nil, err
		}
		restaurants = append(restaurants, rest)
	}
	return restaurants, rows.Err()
}

// GetOrCreateRestaurant returns the restaurant registered under username,
// creating it together with its empty menu on first sight. The insert runs in
// a transaction guarded by ON CONFLICT, so a concurrent call for the same
// username ends up with exactly one restaurant row; the loser's provisional
// menu row is rolled back and the winner's row is re-read.
func GetOrCreateRestaurant(username string) (*models.Restaurant, error) {
	rest, err := GetRestaurantByUsername(username)
	if err == nil {
		return rest, nil
	}
	if !errors.Is(err, ErrRestaurantNotFound) {
		return nil, err
	}

	var created models.Restaurant
	txErr := database.Tx(func(tx *sql.Tx) error {
		var menuID int64
		if err := tx.QueryRow(`INSERT INTO menus DEFAULT VALUES RETURNING id`).Scan(&menuID); err != nil {
			return err
		}

		err := tx.QueryRow(`
			INSERT INTO restaurants (username, menu_id)
			VALUES ($1, $2)
			ON CONFLICT (username) DO NOTHING
			RETURNING id, username, menu_id, is_open, created_at`, username, menuID).
			Scan(&created.ID, &created.Username, &created.MenuID, &created.IsOpen, &created.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			// lost the race; discard the menu row with the rollback
			return ErrRestaurantNotFound
		}
		return err
	})
	if txErr == nil {
		return &created, nil
	}
	if errors.Is(txErr, ErrRestaurantNotFound) {
		return GetRestaurantByUsername(username)
	}
	return nil, txErr
}

func SetRestaurantOpen(username string, isOpen bool) error {
	res, err := database.Panel.Exec(`
		UPDATE restaurants
		SET is_open = $2
		WHERE username = $1`, username, isOpen)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}
