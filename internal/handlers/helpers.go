package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/diet-storefront/internal/models"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON request body into dst. An empty body leaves dst
// untouched when allowEmpty is set.
func decodeJSON(r *http.Request, dst interface{}, allowEmpty bool) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err == io.EOF && allowEmpty {
		return nil
	}
	return err
}

func dayParam(r *http.Request, name string) (models.Day, error) {
	return models.ParseDay(chi.URLParam(r, name))
}

func dishIDParam(r *http.Request, name string) (models.DishID, error) {
	return models.ParseDishID(chi.URLParam(r, name))
}

func tierParam(r *http.Request) (int, error) {
	tier, err := strconv.Atoi(chi.URLParam(r, "tier"))
	if err != nil || tier <= 0 {
		return 0, fmt.Errorf("invalid calorie tier %q", chi.URLParam(r, "tier"))
	}
	return tier, nil
}

// weekQuery reads the optional ?week= rotation
func weekQuery(r *http.Request) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("week"))
	if raw == "" {
		return nil, nil
	}
	week, err := strconv.Atoi(raw)
	if err != nil || week <= 0 {
		return nil, fmt.Errorf("invalid week %q", raw)
	}
	return &week, nil
}

// quantityString accepts a quantity sent as a JSON number or string
func quantityString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// dayDishParams reads {day} and {dishId}, writing a 400 when either is invalid
func dayDishParams(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (models.Day, models.DishID, bool) {
	day, err := dayParam(r, "day")
	if err != nil {
		WriteServiceError(w, err, logger)
		return "", 0, false
	}
	id, err := dishIDParam(r, "dishId")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", logger)
		return "", 0, false
	}
	return day, id, true
}
