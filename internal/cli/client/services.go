package client

import (
	"context"
	"net/url"
)

// ListServices returns services matching the filter
func (c *Client) ListServices(ctx context.Context, filter ServiceFilter) ([]Service, error) {
	var services []Service
	if err := c.get(ctx, "services", filter.values(), &services); err != nil {
		return nil, err
	}
	return services, nil
}

// SearchServices runs a free-text search, optionally scoped by field
func (c *Client) SearchServices(ctx context.Context, query, searchBy string) ([]Service, error) {
	v := url.Values{}
	v.Set("q", query)
	v.Set("by", searchBy)

	var services []Service
	if err := c.get(ctx, "services", v, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// GetService returns one service
func (c *Client) GetService(ctx context.Context, id int64) (*Service, error) {
	var service Service
	if err := c.get(ctx, idPath("services/%d", id), nil, &service); err != nil {
		return nil, err
	}
	return &service, nil
}

// CreateService adds a service to the catalogue (admin)
func (c *Client) CreateService(ctx context.Context, in ServiceInput) (*Message, error) {
	var msg Message
	if err := c.post(ctx, "services", in, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// UpdateService edits a service (admin)
func (c *Client) UpdateService(ctx context.Context, id int64, in ServiceInput) (*Message, error) {
	var msg Message
	if err := c.put(ctx, idPath("services/%d", id), in, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// DeleteService removes a service (admin)
func (c *Client) DeleteService(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("services/%d", id), nil)
}

// ListServiceTypes returns the distinct service categories
func (c *Client) ListServiceTypes(ctx context.Context) ([]string, error) {
	var types []string
	if err := c.get(ctx, "service-types", nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// PopularServices returns the most requested services
func (c *Client) PopularServices(ctx context.Context) ([]Service, error) {
	var services []Service
	if err := c.get(ctx, "services/popular", nil, &services); err != nil {
		return nil, err
	}
	return services, nil
}
