package fiber

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/lborres/dailydiet/core"
)

// bindBody decodes and validates the request body. Every failure is a
// validation error.
func bindBody(c fiber.Ctx, out any) error {
	if err := c.Bind().Body(out); err != nil {
		var ie *inputError
		if errors.As(err, &ie) {
			return ie
		}
		return fmt.Errorf("%w: %w", invalidInput(core.ErrValidation, detailMalformedBody), err)
	}
	return nil
}

func (a *Adapter) register(c fiber.Ctx) error {
	var req registerRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	result, err := a.dd.Identity.Register(c.Context(), core.RegisterInput{
		Token: c.Cookies(a.dd.SessionConfig.CookieName),
		Name:  *req.Name,
		Email: *req.Email,
	})
	if err != nil {
		return err
	}

	if result.Issued {
		c.Cookie(a.sessionCookie(result.Token))
	}

	return c.Status(http.StatusCreated).JSON(registerResponse{User: result.User})
}

func (a *Adapter) sessionCookie(token string) *fiber.Cookie {
	cfg := a.dd.SessionConfig
	return &fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   cfg.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

func (a *Adapter) createMeal(c fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req mealRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	id, err := a.dd.Meals.Create(c.Context(), user.ID, req.input())
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(createMealResponse{ID: id})
}

func (a *Adapter) listMeals(c fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	meals, err := a.dd.Meals.List(c.Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(listMealsResponse{Meals: meals})
}

func (a *Adapter) getMeal(c fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id := c.Params("id")
	if err := a.validator.mealID(id); err != nil {
		return err
	}

	meal, err := a.dd.Meals.Get(c.Context(), user.ID, id)
	if err != nil {
		return err
	}

	return c.JSON(mealResponse{Meal: meal})
}

func (a *Adapter) updateMeal(c fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id := c.Params("id")
	if err := a.validator.mealID(id); err != nil {
		return err
	}

	var req mealRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	if err := a.dd.Meals.Update(c.Context(), user.ID, id, req.input()); err != nil {
		return err
	}

	return c.SendStatus(http.StatusNoContent)
}

func (a *Adapter) deleteMeal(c fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id := c.Params("id")
	if err := a.validator.mealID(id); err != nil {
		return err
	}

	if err := a.dd.Meals.Delete(c.Context(), user.ID, id); err != nil {
		return err
	}

	return c.SendStatus(http.StatusNoContent)
}

func (a *Adapter) metrics(c fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	m, err := a.dd.Metrics.Metrics(c.Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(m)
}

func (a *Adapter) health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
