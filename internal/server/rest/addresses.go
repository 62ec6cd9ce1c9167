package rest

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/anonsession/internal/server/models"
	"github.com/labstack/echo/v4"
)

func addressID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "address not found")
	}
	return id, nil
}

func views(list []*models.Address) []models.AddressView {
	out := make([]models.AddressView, 0, len(list))
	for _, a := range list {
		out = append(out, a.View())
	}
	return out
}

// ListAddressesHandler returns the caller's addresses, newest first.
func ListAddressesHandler(addresses AddressService) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := addresses.List(c.Request().Context(), currentUser(c))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, views(list))
	}
}

// GetAddressHandler answers 403 for addresses owned by someone else.
func GetAddressHandler(addresses AddressService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := addressID(c)
		if err != nil {
			return err
		}
		a, err := addresses.Get(c.Request().Context(), currentUser(c), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, a.View())
	}
}

func CreateAddressHandler(addresses AddressService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.AddressPatch
		if err := bind(c, &req); err != nil {
			return err
		}
		a, err := addresses.Create(c.Request().Context(), currentUser(c), &req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, a.View())
	}
}

// UpdateAddressHandler applies the fields present in the body.
func UpdateAddressHandler(addresses AddressService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := addressID(c)
		if err != nil {
			return err
		}
		var req models.AddressPatch
		if err := bind(c, &req); err != nil {
			return err
		}
		a, err := addresses.Update(c.Request().Context(), currentUser(c), id, &req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, a.View())
	}
}
