package graph

import (
	"context"
	"fmt"
	"net/url"

	"github.com/j-veylop/page-insights-tui/internal/models"
)

type meResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

// Me fetches the profile the token was issued for.
func (c *Client) Me(ctx context.Context, token string) (models.Profile, error) {
	if token == "" {
		return models.Profile{}, fmt.Errorf("access token is empty")
	}

	params := url.Values{}
	params.Set("fields", "id,name,email,picture")
	params.Set("access_token", token)

	var resp meResponse
	if err := c.get(ctx, EndpointMe, "me", params, &resp); err != nil {
		return models.Profile{}, err
	}
	if resp.ID == "" {
		return models.Profile{}, fmt.Errorf("profile response has no id")
	}

	return models.Profile{
		ID:         resp.ID,
		Name:       resp.Name,
		Email:      resp.Email,
		PictureURL: resp.Picture.Data.URL,
	}, nil
}

type accountsResponse struct {
	Data []models.Page `json:"data"`
}

// Accounts lists the pages the token's user manages, in provider order.
func (c *Client) Accounts(ctx context.Context, token string) ([]models.Page, error) {
	if token == "" {
		return nil, fmt.Errorf("access token is empty")
	}

	params := url.Values{}
	params.Set("fields", "id,name,category,access_token")
	params.Set("access_token", token)

	var resp accountsResponse
	if err := c.get(ctx, EndpointAccounts, "me/accounts", params, &resp); err != nil {
		return nil, err
	}

	pages := resp.Data
	if pages == nil {
		pages = []models.Page{}
	}
	return pages, nil
}
