package client

import (
	"context"
	"fmt"
)

// ListUsers returns every account (admin)
func (c *Client) ListUsers(ctx context.Context, filter UserFilter) ([]User, error) {
	var users []User
	if err := c.get(ctx, "admin/users", filter.values(), &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AdminDashboardStats returns marketplace-wide counters
func (c *Client) AdminDashboardStats(ctx context.Context) (Document, error) {
	var stats Document
	if err := c.get(ctx, "admin/dashboard/stats", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// RecentServiceRequests returns the latest requests across all customers
func (c *Client) RecentServiceRequests(ctx context.Context) ([]ServiceRequest, error) {
	var requests []ServiceRequest
	if err := c.get(ctx, "admin/service-requests/recent", nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// AllServiceRequests returns every request, filtered
func (c *Client) AllServiceRequests(ctx context.Context, filter RequestFilter) ([]ServiceRequest, error) {
	var requests []ServiceRequest
	if err := c.get(ctx, "admin/service-requests", filter.values(), &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// ListProfessionals returns professional profiles
func (c *Client) ListProfessionals(ctx context.Context, filter UserFilter) ([]Document, error) {
	var pros []Document
	if err := c.get(ctx, "admin/professionals", filter.values(), &pros); err != nil {
		return nil, err
	}
	return pros, nil
}

// PendingProfessionals returns professionals awaiting approval
func (c *Client) PendingProfessionals(ctx context.Context) ([]Document, error) {
	var pros []Document
	if err := c.get(ctx, "admin/professionals/pending", nil, &pros); err != nil {
		return nil, err
	}
	return pros, nil
}

// GetProfessional returns one professional profile
func (c *Client) GetProfessional(ctx context.Context, id int64) (Document, error) {
	var pro Document
	if err := c.get(ctx, idPath("admin/professionals/%d", id), nil, &pro); err != nil {
		return nil, err
	}
	return pro, nil
}

// UpdateProfessionalStatus sets approval/block flags on a professional
func (c *Client) UpdateProfessionalStatus(ctx context.Context, id int64, status Document) (*Message, error) {
	var msg Message
	if err := c.put(ctx, idPath("admin/professionals/%d", id), status, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ApproveProfessional admits a professional to the marketplace
func (c *Client) ApproveProfessional(ctx context.Context, id int64) (*Message, error) {
	return c.adminAction(ctx, "professionals", id, "approve", nil)
}

// BlockProfessional suspends a professional
func (c *Client) BlockProfessional(ctx context.Context, id int64) (*Message, error) {
	return c.adminAction(ctx, "professionals", id, "block", nil)
}

// UnblockProfessional lifts a professional's suspension
func (c *Client) UnblockProfessional(ctx context.Context, id int64) (*Message, error) {
	return c.adminAction(ctx, "professionals", id, "unblock", nil)
}

// ListCustomers returns customer profiles
func (c *Client) ListCustomers(ctx context.Context, filter UserFilter) ([]Document, error) {
	var customers []Document
	if err := c.get(ctx, "admin/customers", filter.values(), &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// GetCustomer returns one customer profile
func (c *Client) GetCustomer(ctx context.Context, id int64) (Document, error) {
	var customer Document
	if err := c.get(ctx, idPath("admin/customers/%d", id), nil, &customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// UpdateCustomerStatus sets the block flag on a customer
func (c *Client) UpdateCustomerStatus(ctx context.Context, id int64, status Document) (*Message, error) {
	var msg Message
	if err := c.put(ctx, idPath("admin/customers/%d", id), status, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// BlockCustomer suspends a customer
func (c *Client) BlockCustomer(ctx context.Context, id int64) (*Message, error) {
	return c.adminAction(ctx, "customers", id, "block", nil)
}

// UnblockCustomer lifts a customer's suspension
func (c *Client) UnblockCustomer(ctx context.Context, id int64) (*Message, error) {
	return c.adminAction(ctx, "customers", id, "unblock", nil)
}

// BlockUser suspends any account with a reason
func (c *Client) BlockUser(ctx context.Context, id int64, reason string) (*Message, error) {
	body := struct {
		Reason string `json:"reason"`
	}{reason}
	return c.adminAction(ctx, "users", id, "block", body)
}

// UnblockUser lifts an account suspension
func (c *Client) UnblockUser(ctx context.Context, id int64) (*Message, error) {
	return c.adminAction(ctx, "users", id, "unblock", nil)
}

func (c *Client) adminAction(ctx context.Context, resource string, id int64, action string, body any) (*Message, error) {
	var msg Message
	if err := c.post(ctx, fmt.Sprintf("admin/%s/%d/%s", resource, id, action), body, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
