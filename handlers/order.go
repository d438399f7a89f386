package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/sajadkh/restaurant-panel/database/dbhelper"
	"github.com/sajadkh/restaurant-panel/middlewares"
	"github.com/sajadkh/restaurant-panel/models"
	"github.com/sajadkh/restaurant-panel/utils"
)

const (
	msgOrderNotFound    = "Order Not Found!"
	msgRestaurantClosed = "Restaurant is closed"
)

func ListOrders(w http.ResponseWriter, r *http.Request) {
	identity, err := middlewares.GetIdentity(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, utils.MsgUnauthorized)
		return
	}
	if identity.Username != mux.Vars(r)["username"] {
		utils.RespondWithError(w, http.StatusForbidden, utils.MsgForbidden)
		return
	}

	rest, err := dbhelper.GetRestaurantByUsername(identity.Username)
	if errors.Is(err, dbhelper.ErrRestaurantNotFound) {
		utils.RespondWithError(w, http.StatusBadRequest, msgMustCreateMenu)
		return
	}
	if err != nil {
		logrus.Errorf("failed to get restaurant %s, error: %v", identity.Username, err)
		utils.RespondWithError(w, http.StatusInternalServerError, utils.MsgInternalError)
		return
	}

	orders, err := dbhelper.ListOrders(rest.ID)
	if err != nil {
		logrus.Errorf("failed to list orders for restaurant %s, error: %v", identity.Username, err)
		utils.RespondWithError(w, http.StatusInternalServerError, utils.MsgInternalError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// CreateOrder places an order on behalf of a customer. Only the internal
// service may call it; the restaurant must be open.
func CreateOrder(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	body := utils.ParseBody(r)
	if errs := utils.MissingFields([]string{"foods", "customer"}, utils.BodyHas(body)); len(errs) > 0 {
		utils.RespondWithErrors(w, http.StatusBadRequest, errs)
		return
	}

	var foodIDs []int64
	if err := json.Unmarshal(body["foods"], &foodIDs); err != nil {
		utils.RespondWithErrors(w, http.StatusBadRequest, []string{"foods must be a list of food ids!"})
		return
	}
	var customer string
	if err := json.Unmarshal(body["customer"], &customer); err != nil || customer == "" {
		utils.RespondWithErrors(w, http.StatusBadRequest, []string{"customer must be a non-empty string!"})
		return
	}

	rest, err := dbhelper.GetRestaurantByUsername(username)
	if errors.Is(err, dbhelper.ErrRestaurantNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, msgRestaurantNotFound)
		return
	}
	if err != nil {
		logrus.Errorf("failed to get restaurant %s, error: %v", username, err)
		utils.RespondWithError(w, http.StatusInternalServerError, utils.MsgInternalError)
		return
	}
	if !rest.IsOpen {
		utils.RespondWithError(w, http.StatusBadRequest, msgRestaurantClosed)
		return
	}

	order, err := dbhelper.CreateOrder(rest, customer, foodIDs)
	switch {
	case errors.Is(err, dbhelper.ErrRestaurantClosed):
		utils.RespondWithError(w, http.StatusBadRequest, msgRestaurantClosed)
		return
	case errors.Is(err, dbhelper.ErrFoodNotFound):
		utils.RespondWithError(w, http.StatusNotFound, msgFoodNotFound)
		return
	case errors.Is(err, dbhelper.ErrRestaurantNotFound):
		utils.RespondWithError(w, http.StatusNotFound, msgRestaurantNotFound)
		return
	case err != nil:
		logrus.Errorf("failed to create order for restaurant %s, error: %v", username, err)
		utils.RespondWithError(w, http.StatusInternalServerError, utils.MsgInternalError)
		return
	}

	order.Restaurant = rest
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// GetOrder is readable by the internal service and by the owning restaurant.
func GetOrder(w http.ResponseWriter, r *http.Request) {
	identity, err := middlewares.GetIdentity(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, utils.MsgUnauthorized)
		return
	}

	username := mux.Vars(r)["username"]
	isInternal := identity.Role == string(models.RoleInternal)
	isOwner := identity.Role == string(models.RoleRestaurant) && identity.Username == username
	if !isInternal && !isOwner {
		utils.RespondWithError(w, http.StatusForbidden, utils.MsgForbidden)
		return
	}

	orderID, err := strconv.ParseInt(mux.Vars(r)["orderId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "order id must be an integer!")
		return
	}

	rest, err := dbhelper.GetRestaurantByUsername(username)
	if errors.Is(err, dbhelper.ErrRestaurantNotFound) {
		utils.RespondWithError(w, http.StatusBadRequest, msgMustCreateMenu)
		return
	}
	if err != nil {
		logrus.Errorf("failed to get restaurant %s, error: %v", username, err)
		utils.RespondWithError(w, http.StatusInternalServerError, utils.MsgInternalError)
		return
	}

	order, err := dbhelper.GetOrder(rest.ID, orderID)
	if errors.Is(err, dbhelper.ErrOrderNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, msgOrderNotFound)
		return
	}
	if err != nil {
		logrus.Errorf("failed to get order %d, error: %v", orderID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, utils.MsgInternalError)
		return
	}

	order.Restaurant = rest
	utils.RespondWithJSON(w, http.StatusOK, order)
}

func DeliverOrder(w http.ResponseWriter, r *http.Request) {
	identity, err := middlewares.GetIdentity(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, utils.MsgUnauthorized)
		return
	}
	if identity.Username != mux.Vars(r)["username"] {
		utils.RespondWithError(w, http.StatusForbidden, utils.MsgForbidden)
		return
	}

	orderID, err := strconv.ParseInt(mux.Vars(r)["orderId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "order id must be an integer!")
		return
	}

	rest, err := dbhelper.GetRestaurantByUsername(identity.Username)
	if errors.Is(err, dbhelper.ErrRestaurantNotFound) {
		utils.RespondWithError(w, http.StatusBadRequest, msgMustCreateMenu)
		return
	}
	if err != nil {
		logrus.Errorf("failed to get restaurant %s, error: %v", identity.Username, err)
		utils.RespondWithError(w, http.StatusInternalServerError, utils.MsgInternalError)
		return
	}

	err = dbhelper.MarkOrderDelivered(rest.ID, orderID)
	if errors.Is(err, dbhelper.ErrOrderNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, msgOrderNotFound)
		return
	}
	if err != nil {
		logrus.Errorf("failed to mark order %d delivered, error: %v", orderID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, utils.MsgInternalError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, "OK")
}
