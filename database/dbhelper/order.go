package dbhelper

import (
	"database/sql"
	"errors"

	"github.com/sajadkh/restaurant-panel/database"
	"github.com/sajadkh/restaurant-panel/models"
)

// ErrRestaurantClosed is returned when an order is placed against a
// restaurant whose is_open flag is false at commit time.
var ErrRestaurantClosed = errors.New("restaurant is closed")

// CreateOrder resolves every food id against the restaurant's menu, freezes
// the total price as the sum of the resolved prices, and persists the order
// with its food links, all in one transaction. The open flag is re-read
// inside the transaction so a close racing with the order is not lost.
func CreateOrder(rest *models.Restaurant, customer string, foodIDs []int64) (*models.Order, error) {
	order := models.Order{
		RestaurantID: rest.ID,
		Customer:     customer,
		Foods:        make([]models.Food, 0, len(foodIDs)),
	}

	txErr := database.Tx(func(tx *sql.Tx) error {
		var isOpen bool
		if err := tx.QueryRow(`SELECT is_open FROM restaurants WHERE id = $1`, rest.ID).Scan(&isOpen); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRestaurantNotFound
			}
			return err
		}
		if !isOpen {
			return ErrRestaurantClosed
		}

		seen := make(map[int64]bool, len(foodIDs))
		for _, foodID := range foodIDs {
			var food models.Food
			err := tx.QueryRow(`
				SELECT id, menu_id, name, price, availability
				FROM foods
				WHERE id = $1 AND menu_id = $2`, foodID, rest.MenuID).
				Scan(&food.ID, &food.MenuID, &food.Name, &food.Price, &food.Availability)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrFoodNotFound
			}
			if err != nil {
				return err
			}

			order.TotalPrice += food.Price
			if !seen[food.ID] {
				seen[food.ID] = true
				order.Foods = append(order.Foods, food)
			}
		}

		err := tx.QueryRow(`
			INSERT INTO orders (restaurant_id, customer, total_price)
			VALUES ($1, $2, $3)
			RETURNING id, delivered, created_at`, order.RestaurantID, order.Customer, order.TotalPrice).
			Scan(&order.ID, &order.Delivered, &order.CreatedAt)
		if err != nil {
			return err
		}

		for _, food := range order.Foods {
			if _, err := tx.Exec(`INSERT INTO order_foods (order_id, food_id) VALUES ($1, $2)`, order.ID, food.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &order, nil
}

func ListOrders(restaurantID int64) ([]models.Order, error) {
	rows, err := database.Panel.Query(`
		SELECT id, restaurant_id, customer, total_price, delivered, created_at
		FROM orders
		WHERE restaurant_id = $1
		ORDER BY created_at`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]models.Order, 0)
	for rows.Next() {
		var order models.Order
		if err := rows.Scan(&order.ID, &order.RestaurantID, &order.Customer, &order.TotalPrice, &order.Delivered, &order.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		foods, err := listOrderFoods(orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Foods = foods
	}
	return orders, nil
}

func GetOrder(restaurantID, orderID int64) (*models.Order, error) {
	var order models.Order
	err := database.Panel.QueryRow(`
		SELECT id, restaurant_id, customer, total_price, delivered, created_at
		FROM orders
		WHERE restaurant_id = $1 AND id = $2`, restaurantID, orderID).
		Scan(&order.ID, &order.RestaurantID, &order.Customer, &order.TotalPrice, &order.Delivered, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	foods, err := listOrderFoods(order.ID)
	if err != nil {
		return nil, err
	}
	order.Foods = foods
	return &order, nil
}

func MarkOrderDelivered(restaurantID, orderID int64) error {
	res, err := database.Panel.Exec(`
		UPDATE orders
		SET delivered = TRUE
		WHERE restaurant_id = $1 AND id = $2`, restaurantID, orderID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func listOrderFoods(orderID int64) ([]models.Food, error) {
	rows, err := database.Panel.Query(`
		SELECT f.id, f.menu_id, f.name, f.price, f.availability
		FROM foods f
		JOIN order_foods link ON link.food_id = f.id
		WHERE link.order_id = $1
		ORDER BY f.id`, orderID)
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
