package client

import "context"

// ListReviews returns all reviews
func (c *Client) ListReviews(ctx context.Context) ([]Review, error) {
	var reviews []Review
	if err := c.get(ctx, "reviews", nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// ReviewsForRequest returns the reviews attached to one service request
func (c *Client) ReviewsForRequest(ctx context.Context, serviceRequestID int64) ([]Review, error) {
	var reviews []Review
	if err := c.get(ctx, idPath("reviews/%d", serviceRequestID), nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview posts a review for a service request (customer)
func (c *Client) CreateReview(ctx context.Context, in NewReview) (*Message, error) {
	var msg Message
	if err := c.post(ctx, "reviews", in, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
