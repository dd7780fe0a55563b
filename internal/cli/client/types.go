package client

import (
	"net/url"
	"strconv"
)

// Document is a loosely-typed JSON object for payloads the client only displays
type Document map[string]any

// Message is the backend's acknowledgement body
type Message struct {
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
}

// Service is a bookable household service
type Service struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	TimeRequired     int     `json:"time_req"`
	Description      string  `json:"description"`
	ServiceType      string  `json:"service_type"`
	HasProfessionals bool    `json:"has_professionals,omitempty"`
}

// ServiceInput is the body for creating or updating a service
type ServiceInput struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	TimeRequired int     `json:"time_req"`
	Description  string  `json:"description,omitempty"`
	ServiceType  string  `json:"service_type"`
}

// ServiceFilter narrows the service list
type ServiceFilter struct {
	Name string
	Type string
	Pin  string
}

func (f ServiceFilter) values() url.Values {
	v := url.Values{}
	setIf(v, "name", f.Name)
	setIf(v, "type", f.Type)
	setIf(v, "pin", f.Pin)
	return v
}

// ServiceRequest is a customer's booking of a service
type ServiceRequest struct {
	ID               int64   `json:"id"`
	ServiceID        int64   `json:"service_id"`
	ServiceName      string  `json:"service_name,omitempty"`
	ServiceType      string  `json:"service_type,omitempty"`
	CustomerID       int64   `json:"customer_id,omitempty"`
	CustomerName     string  `json:"customer_name,omitempty"`
	CustomerAddress  string  `json:"customer_address,omitempty"`
	CustomerPin      any     `json:"customer_pin,omitempty"`
	ProfessionalID   int64   `json:"professional_id,omitempty"`
	ProfessionalName string  `json:"professional_name,omitempty"`
	Price            float64 `json:"price,omitempty"`
	Duration         int     `json:"duration,omitempty"`
	RequestDate      string  `json:"req_date,omitempty"`
	CompletionDate   string  `json:"comp_date,omitempty"`
	Status           string  `json:"status"`
	Remarks          string  `json:"remarks,omitempty"`
}

// NewServiceRequest is the body for booking a service
type NewServiceRequest struct {
	ServiceID int64  `json:"service_id"`
	Remarks   string `json:"remarks,omitempty"`
}

// ServiceRequestUpdate is the body for editing or closing a request
type ServiceRequestUpdate struct {
	Status  string `json:"status,omitempty"`
	Action  string `json:"action,omitempty"`
	Remarks string `json:"remarks,omitempty"`
}

// RequestFilter narrows service request listings
type RequestFilter struct {
	Status string
	From   string // YYYY-MM-DD
	To     string // YYYY-MM-DD
	Search string
	Limit  int
	Role   string
}

func (f RequestFilter) values() url.Values {
	v := url.Values{}
	setIf(v, "status", f.Status)
	setIf(v, "from", f.From)
	setIf(v, "to", f.To)
	setIf(v, "search", f.Search)
	setIf(v, "role", f.Role)
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v
}

// Review is a customer's rating of a completed request
type Review struct {
	ID               int64  `json:"id"`
	ServiceRequestID int64  `json:"service_request_id"`
	CustomerID       int64  `json:"customer_id,omitempty"`
	CustomerName     string `json:"customer_name,omitempty"`
	Rating           int    `json:"rating"`
	Comment          string `json:"comment,omitempty"`
	DateCreated      string `json:"date_created,omitempty"`
}

// NewReview is the body for posting a review
type NewReview struct {
	ServiceRequestID int64  `json:"service_request_id"`
	Rating           int    `json:"rating"`
	Comment          string `json:"comment,omitempty"`
}

// User is an account as listed by the admin endpoints
type User struct {
	ID           int64    `json:"id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Active       bool     `json:"active"`
	Professional Document `json:"professional,omitempty"`
	Customer     Document `json:"customer,omitempty"`
}

// UserFilter narrows admin user listings
type UserFilter struct {
	Role   string
	Status string // active, blocked, pending
	Search string
}

func (f UserFilter) values() url.Values {
	v := url.Values{}
	setIf(v, "role", f.Role)
	setIf(v, "status", f.Status)
	setIf(v, "search", f.Search)
	return v
}

// Address is a customer's saved address
type Address struct {
	ID        int64  `json:"id,omitempty"`
	Label     string `json:"label,omitempty"`
	Address   string `json:"address"`
	Pin       string `json:"pin,omitempty"`
	IsDefault bool   `json:"is_default,omitempty"`
}

// PasswordChange is the body for PUT auth/password
type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
