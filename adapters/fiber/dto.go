package fiber

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/lborres/dailydiet/core"
)

// Pointer fields make "missing" distinguishable from the zero value, so
// `required` rejects absent keys while still allowing "" and false.

type registerRequest struct {
	Name  *string `json:"name" validate:"required"`
	Email *string `json:"email" validate:"required,email"`
}

type mealRequest struct {
	Name        *string   `json:"name" validate:"required"`
	Description *string   `json:"description" validate:"required"`
	IsOnDiet    *bool     `json:"isOnDiet" validate:"required"`
	Date        *flexDate `json:"date" validate:"required"`
}

func (r mealRequest) input() core.MealInput {
	return core.MealInput{
		Name:        *r.Name,
		Description: *r.Description,
		IsOnDiet:    *r.IsOnDiet,
		Date:        r.Date.Time,
	}
}

type registerResponse struct {
	User *core.User `json:"user"`
}

type createMealResponse struct {
	ID string `json:"id"`
}

type listMealsResponse struct {
	Meals []*core.Meal `json:"meals"`
}

type mealResponse struct {
	Meal *core.Meal `json:"meal"`
}

// flexDate accepts an RFC 3339 string (the offset colon is optional), a bare
// date, a date and time without zone (read as UTC), an RFC 1123 or ANSI C
// date, or a JSON number of milliseconds since the epoch.
type flexDate struct {
	time.Time
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC850,
	time.ANSIC,
}

const detailInvalidDate = "date must be a timestamp or milliseconds since the epoch"

func (d *flexDate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return invalidInput(core.ErrInvalidDate, detailInvalidDate)
	}

	if data[0] != '"' {
		ms, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return invalidInput(core.ErrInvalidDate, detailInvalidDate)
		}
		d.Time = time.UnixMilli(ms).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return invalidInput(core.ErrInvalidDate, detailInvalidDate)
	}
	t, err := parseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalidInput(core.ErrInvalidDate, detailInvalidDate)
}
