package client

import (
	"context"
	"fmt"
)

// Request status transitions accepted by the action endpoint
const (
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

// ListServiceRequests returns requests visible to the caller
func (c *Client) ListServiceRequests(ctx context.Context, filter RequestFilter) ([]ServiceRequest, error) {
	var requests []ServiceRequest
	if err := c.get(ctx, "service-requests", filter.values(), &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// ProfessionalRequests lists requests from the professional's point of view
func (c *Client) ProfessionalRequests(ctx context.Context, filter RequestFilter) ([]ServiceRequest, error) {
	filter.Role = "professional"
	return c.ListServiceRequests(ctx, filter)
}

// CustomerServiceRequests lists requests from the customer's point of view
func (c *Client) CustomerServiceRequests(ctx context.Context, filter RequestFilter) ([]ServiceRequest, error) {
	filter.Role = "customer"
	return c.ListServiceRequests(ctx, filter)
}

// GetServiceRequest returns one request
func (c *Client) GetServiceRequest(ctx context.Context, id int64) (*ServiceRequest, error) {
	var sr ServiceRequest
	if err := c.get(ctx, idPath("service-requests/%d", id), nil, &sr); err != nil {
		return nil, err
	}
	return &sr, nil
}

// CreateServiceRequest books a service (customer)
func (c *Client) CreateServiceRequest(ctx context.Context, in NewServiceRequest) (*Message, error) {
	var msg Message
	if err := c.post(ctx, "service-requests", in, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// UpdateServiceRequest edits remarks or closes a request
func (c *Client) UpdateServiceRequest(ctx context.Context, id int64, in ServiceRequestUpdate) (*Message, error) {
	var msg Message
	if err := c.put(ctx, idPath("service-requests/%d", id), in, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// DeleteServiceRequest cancels a request
func (c *Client) DeleteServiceRequest(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("service-requests/%d", id), nil)
}

// AcceptServiceRequest assigns the request to the calling professional
func (c *Client) AcceptServiceRequest(ctx context.Context, id int64) (*Message, error) {
	return c.setServiceRequestStatus(ctx, id, StatusAccepted)
}

// RejectServiceRequest declines the request
func (c *Client) RejectServiceRequest(ctx context.Context, id int64) (*Message, error) {
	return c.setServiceRequestStatus(ctx, id, StatusRejected)
}

// CompleteServiceRequest marks the work as done
func (c *Client) CompleteServiceRequest(ctx context.Context, id int64) (*Message, error) {
	return c.setServiceRequestStatus(ctx, id, StatusCompleted)
}

func (c *Client) setServiceRequestStatus(ctx context.Context, id int64, status string) (*Message, error) {
	var msg Message
	if err := c.post(ctx, fmt.Sprintf("service-requests/%d/%s", id, status), nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// RateServiceRequest attaches a rating and review to a closed request
func (c *Client) RateServiceRequest(ctx context.Context, id int64, rating int, review string) (*Message, error) {
	body := struct {
		Rating int    `json:"rating"`
		Review string `json:"review"`
	}{rating, review}

	var msg Message
	if err := c.post(ctx, idPath("service-requests/%d/rate", id), body, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ServiceRequestStats returns the caller's request counters
func (c *Client) ServiceRequestStats(ctx context.Context) (Document, error) {
	var stats Document
	if err := c.get(ctx, "service-requests/stats", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// ProfessionalSchedule returns the professional's upcoming assignments
func (c *Client) ProfessionalSchedule(ctx context.Context, filter RequestFilter) ([]ServiceRequest, error) {
	var schedule []ServiceRequest
	if err := c.get(ctx, "service-requests/schedule", filter.values(), &schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}
