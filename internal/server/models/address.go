package models

import (
	"strings"
	"time"
)

// Address is a shipping or billing address owned by one user.
type Address struct {
	ID           int64
	UserID       int64
	FirstName    string
	LastName     string
	PhoneNumber  string
	Street1      string
	Street2      string
	City         string
	State        string
	PostCode     string
	CountryCode  string
	Organization string
	IsBilling    bool
	Created      time.Time
	Updated      time.Time
}

// AddressView is the JSON shape of an address. Line, postal code and
// country aliases are kept for payment-provider style clients.
type AddressView struct {
	ID           int64   `json:"id"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	PhoneNumber  string  `json:"phone_number"`
	Created      float64 `json:"created"`
	Updated      float64 `json:"updated"`
	Street1      string  `json:"street1"`
	Street2      string  `json:"street2"`
	Line1        string  `json:"line1"`
	Line2        string  `json:"line2"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	PostCode     string  `json:"post_code"`
	PostalCode   string  `json:"postal_code"`
	Country      string  `json:"country"`
	CountryCode  string  `json:"country_code"`
	Organization string  `json:"organization"`
	IsBilling    bool    `json:"is_billing"`
	CustomerName string  `json:"customer_name"`
}

func (a *Address) View() AddressView {
	return AddressView{
		ID:           a.ID,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		PhoneNumber:  a.PhoneNumber,
		Created:      unixSeconds(a.Created),
		Updated:      unixSeconds(a.Updated),
		Street1:      a.Street1,
		Street2:      a.Street2,
		Line1:        a.Street1,
		Line2:        a.Street2,
		City:         a.City,
		State:        a.State,
		PostCode:     a.PostCode,
		PostalCode:   a.PostCode,
		Country:      a.CountryCode,
		CountryCode:  a.CountryCode,
		Organization: a.Organization,
		IsBilling:    a.IsBilling,
		CustomerName: strings.TrimSpace(a.FirstName + " " + a.LastName),
	}
}

// AddressPatch holds the fields a client sent. Nil fields are left as is.
type AddressPatch struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	PhoneNumber  *string `json:"phone_number"`
	Street1      *string `json:"street1"`
	Street2      *string `json:"street2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	PostCode     *string `json:"post_code"`
	CountryCode  *string `json:"country_code"`
	Organization *string `json:"organization"`
	IsBilling    *bool   `json:"is_billing"`
}

// Apply copies the set fields of p onto a.
func (p *AddressPatch) Apply(a *Address) {
	for _, f := range []struct {
		src *string
		dst *string
	}{
		{p.FirstName, &a.FirstName},
		{p.LastName, &a.LastName},
		{p.PhoneNumber, &a.PhoneNumber},
		{p.Street1, &a.Street1},
		{p.Street2, &a.Street2},
		{p.City, &a.City},
		{p.State, &a.State},
		{p.PostCode, &a.PostCode},
		{p.CountryCode, &a.CountryCode},
		{p.Organization, &a.Organization},
	} {
		if f.src != nil {
			*f.dst = strings.TrimSpace(*f.src)
		}
	}
	if p.IsBilling != nil {
		a.IsBilling = *p.IsBilling
	}
}

// MissingRequired names the first empty mandatory field, or "".
func (a *Address) MissingRequired() string {
	for _, f := range []struct {
		name  string
		value string
	}{
		{"street1", a.Street1},
		{"city", a.City},
		{"state", a.State},
		{"post_code", a.PostCode},
		{"country_code", a.CountryCode},
	} {
		if f.value == "" {
			return f.name
		}
	}
	return ""
}
