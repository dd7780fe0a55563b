package client

import "context"

// ProfessionalProfile returns the calling professional's profile
func (c *Client) ProfessionalProfile(ctx context.Context) (Document, error) {
	var profile Document
	if err := c.get(ctx, "professional/profile", nil, &profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfessionalProfile edits the calling professional's profile
func (c *Client) UpdateProfessionalProfile(ctx context.Context, profile Document) (*Message, error) {
	var msg Message
	if err := c.put(ctx, "professional/profile", profile, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ProfessionalServices returns the services the professional offers
func (c *Client) ProfessionalServices(ctx context.Context) ([]Service, error) {
	var services []Service
	if err := c.get(ctx, "professional/services", nil, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// UpdateProfessionalServices replaces the offered service ids
func (c *Client) UpdateProfessionalServices(ctx context.Context, serviceIDs []int64) (*Message, error) {
	body := struct {
		Services []int64 `json:"services"`
	}{serviceIDs}

	var msg Message
	if err := c.put(ctx, "professional/services", body, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ProfessionalDashboardStats returns the professional's counters
func (c *Client) ProfessionalDashboardStats(ctx context.Context) (Document, error) {
	var stats Document
	if err := c.get(ctx, "professional/dashboard/stats", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// ProfessionalReviews returns reviews left for the professional
func (c *Client) ProfessionalReviews(ctx context.Context, filter RequestFilter) ([]Review, error) {
	var reviews []Review
	if err := c.get(ctx, "professional/reviews", filter.values(), &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// ProfessionalServiceRequests returns requests assigned to the professional
func (c *Client) ProfessionalServiceRequests(ctx context.Context, filter RequestFilter) ([]ServiceRequest, error) {
	var requests []ServiceRequest
	if err := c.get(ctx, "professional/service-requests", filter.values(), &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// CustomerProfile returns the calling customer's profile
func (c *Client) CustomerProfile(ctx context.Context) (Document, error) {
	var profile Document
	if err := c.get(ctx, "customer/profile", nil, &profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateCustomerProfile edits the calling customer's profile
func (c *Client) UpdateCustomerProfile(ctx context.Context, profile Document) (*Message, error) {
	var msg Message
	if err := c.put(ctx, "customer/profile", profile, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// CustomerDashboardStats returns the customer's counters
func (c *Client) CustomerDashboardStats(ctx context.Context) (Document, error) {
	var stats Document
	if err := c.get(ctx, "customer/dashboard/stats", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// SavedAddresses returns the customer's address book
func (c *Client) SavedAddresses(ctx context.Context) ([]Address, error) {
	var addresses []Address
	if err := c.get(ctx, "customer/addresses", nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// AddSavedAddress appends to the address book
func (c *Client) AddSavedAddress(ctx context.Context, addr Address) (*Message, error) {
	var msg Message
	if err := c.post(ctx, "customer/addresses", addr, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// DeleteSavedAddress removes an address
func (c *Client) DeleteSavedAddress(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("customer/addresses/%d", id), nil)
}

// SetDefaultAddress marks an address as the default for new bookings
func (c *Client) SetDefaultAddress(ctx context.Context, id int64) (*Message, error) {
	var msg Message
	if err := c.put(ctx, idPath("customer/addresses/%d/default", id), nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// CustomerActivity returns the customer's recent activity feed
func (c *Client) CustomerActivity(ctx context.Context) ([]Document, error) {
	var activity []Document
	if err := c.get(ctx, "customer/activity", nil, &activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// ChangePassword updates the caller's password
func (c *Client) ChangePassword(ctx context.Context, in PasswordChange) (*Message, error) {
	var msg Message
	if err := c.put(ctx, "auth/password", in, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
