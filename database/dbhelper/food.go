package dbhelper

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sajadkh/restaurant-panel/database"
	"github.com/sajadkh/restaurant-panel/models"
)

func ListFoodsByMenu(menuID int64) ([]models.Food, error) {
	rows, err := database.Panel.Query(`
		SELECT id, menu_id, name, price, availability
		FROM foods
		WHERE menu_id = $1
		ORDER BY id`, menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	foods := make([]models.Food, 0)
	for rows.Next() {
		var food models.Food
		if err := rows.Scan(&food.ID, &food.MenuID, &food.Name, &food.Price, &food.Availability); err != nil {
			return nil, err
		}
		foods = append(foods, food)
	}
	return foods, rows.Err()
}

func AddFoodsToMenu(menuID int64, specs []models.FoodSpec) error {
	return database.Tx(func(tx *sql.Tx) error {
		for _, spec := range specs {
			_, err := tx.Exec(`
				INSERT INTO foods (menu_id, name, price, availability)
				VALUES ($1, $2, $3, $4)`, menuID, spec.Name, spec.Price, spec.Availability)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// FoodUpdate carries the fields of a partial update; nil means "leave as is".
type FoodUpdate struct {
	Name         *string
	Price        *float64
	Availability *int
}

func UpdateFood(menuID, foodID int64, update FoodUpdate) error {
	sets := make([]string, 0, 3)
	args := []interface{}{menuID, foodID}

	if update.Name != nil {
		args = append(args, *update.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if update.Price != nil {
		args = append(args, *update.Price)
		sets = append(sets, fmt.Sprintf("price = $%d", len(args)))
	}
	if update.Availability != nil {
		args = append(args, *update.Availability)
		sets = append(sets, fmt.Sprintf("availability = $%d", len(args)))
	}

	if len(sets) == 0 {
		// nothing to change, but the food must still exist under this menu
		var id int64
		err := database.Panel.QueryRow(`SELECT id FROM foods WHERE menu_id = $1 AND id = $2`, menuID, foodID).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrFoodNotFound
		}
		return err
	}

	query := fmt.Sprintf(`UPDATE foods SET %s WHERE menu_id = $1 AND id = $2`, strings.Join(sets, ", "))
	res, err := database.Panel.Exec(query, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrFoodNotFound
	}
	return nil
}
