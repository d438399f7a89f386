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
	msgRestaurantNotFound = "Restaurant Not Found!"
	msgFoodNotFound       = "Food Not Found!"
	msgMustCreateMenu     = "You must create menu"
)

func ListRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := dbhelper.ListRestaurants()
	if err != nil {
		logrus.Errorf("failed to list restaurants, error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, utils.MsgInternalError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, restaurants)
}

func GetRestaurant(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

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
	utils.RespondWithJSON(w, http.StatusOK, rest)
}

func GetMenu(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

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

	foods, err := dbhelper.ListFoodsByMenu(rest.MenuID)
	if err != nil {
		logrus.Errorf("failed to list foods for menu %d, error: %v", rest.MenuID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, utils.MsgInternalError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.Menu{ID: rest.MenuID, Foods: foods})
}

// AddMenuFoods registers the caller's restaurant on first use and appends the
// submitted foods to its menu.
func AddMenuFoods(w http.ResponseWriter, r *http.Request) {
	identity, err := middlewares.GetIdentity(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, utils.MsgUnauthorized)
		return
	}
	if identity.Username != mux.Vars(r)["username"] {
		utils.RespondWithError(w, http.StatusForbidden, utils.MsgForbidden)
		return
	}

	body := utils.ParseBody(r)
	if errs := utils.MissingFields([]string{"foods"}, utils.BodyHas(body)); len(errs) > 0 {
		utils.RespondWithErrors(w, http.StatusBadRequest, errs)
		return
	}

	var foodItems []map[string]json.RawMessage
	if err := json.Unmarshal(body["foods"], &foodItems); err != nil {
		utils.RespondWithErrors(w, http.StatusBadRequest, []string{"foods must be a list of food objects!"})
		return
	}
	for _, item := range foodItems {
		errs := utils.MissingFields([]string{"name", "price", "availability"}, utils.BodyHas(item))
		if len(errs) > 0 {
			utils.RespondWithErrors(w, http.StatusBadRequest, errs)
			return
		}
	}

	var specs []models.FoodSpec
	if err := json.Unmarshal(body["foods"], &specs); err != nil {
		utils.RespondWithErrors(w, http.StatusBadRequest, []string{"foods must be a list of food objects!"})
		return
	}

	rest, err := dbhelper.GetOrCreateRestaurant(identity.Username)
	if err != nil {
		logrus.Errorf("failed to get or create restaurant %s, error: %v", identity.Username, err)
		utils.RespondWithError(w, http.StatusInternalServerError, utils.MsgInternalError)
		return
	}

	if err := dbhelper.AddFoodsToMenu(rest.MenuID, specs); err != nil {
		logrus.Errorf("failed to add foods to menu %d, error: %v", rest.MenuID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, utils.MsgInternalError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, "OK")
}

func OpenRestaurant(w http.ResponseWriter, r *http.Request) {
	setRestaurantOpen(w, r, true)
}

func CloseRestaurant(w http.ResponseWriter, r *http.Request) {
	setRestaurantOpen(w, r, false)
}

func setRestaurantOpen(w http.ResponseWriter, r *http.Request, isOpen bool) {
	identity, err := middlewares.GetIdentity(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, utils.MsgUnauthorized)
		return
	}

	err = dbhelper.SetRestaurantOpen(identity.Username, isOpen)
	if errors.Is(err, dbhelper.ErrRestaurantNotFound) {
		utils.RespondWithError(w, http.StatusBadRequest, msgMustCreateMenu)
		return
	}
	if err != nil {
		logrus.Errorf("failed to set restaurant %s open=%t, error: %v", identity.Username, isOpen, err)
		utils.RespondWithError(w, http.StatusInternalServerError, utils.MsgInternalError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, "OK")
}

// UpdateFood applies a partial update; only the fields present in the body
// are touched.
func UpdateFood(w http.ResponseWriter, r *http.Request) {
	identity, err := middlewares.GetIdentity(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, utils.MsgUnauthorized)
		return
	}
	if identity.Username != mux.Vars(r)["username"] {
		utils.RespondWithError(w, http.StatusForbidden, utils.MsgForbidden)
		return
	}

	foodID, err := strconv.ParseInt(mux.Vars(r)["foodId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "food id must be an integer!")
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

	body := utils.ParseBody(r)
	var update dbhelper.FoodUpdate
	if raw, ok := body["name"]; ok {
		if err := json.Unmarshal(raw, &update.Name); err != nil {
			utils.RespondWithErrors(w, http.StatusBadRequest, []string{"name must be a string!"})
			return
		}
	}
	if raw, ok := body["price"]; ok {
		if err := json.Unmarshal(raw, &update.Price); err != nil {
			utils.RespondWithErrors(w, http.StatusBadRequest, []string{"price must be a number!"})
			return
		}
	}
	if raw, ok := body["availability"]; ok {
		if err := json.Unmarshal(raw, &update.Availability); err != nil {
			utils.RespondWithErrors(w, http.StatusBadRequest, []string{"availability must be an integer!"})
			return
		}
	}

	err = dbhelper.UpdateFood(rest.MenuID, foodID, update)
	if errors.Is(err, dbhelper.ErrFoodNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, msgFoodNotFound)
		return
	}
	if err != nil {
		logrus.Errorf("failed to update food %d, error: %v", foodID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, utils.MsgInternalError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, "OK")
}
