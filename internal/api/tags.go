package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cone387/ttask/internal/models"
)

// TagInput is the create/update payload for a tag.
type TagInput struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// ListTags returns every tag, pagination unwrapped.
func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags, err := getList[models.Tag](ctx, c, "/tags/")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (c *Client) CreateTag(ctx context.Context, in TagInput) (models.Tag, error) {
	var t models.Tag
	if err := c.do(ctx, http.MethodPost, "/tags/", in, &t); err != nil {
		return models.Tag{}, fmt.Errorf("create tag: %w", err)
	}
	return t, nil
}

func (c *Client) UpdateTag(ctx context.Context, id int64, in TagInput) (models.Tag, error) {
	var t models.Tag
	if err := c.do(ctx, http.MethodPatch, tagPath(id), in, &t); err != nil {
		return models.Tag{}, fmt.Errorf("update tag %d: %w", id, err)
	}
	return t, nil
}

func (c *Client) DeleteTag(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, tagPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete tag %d: %w", id, err)
	}
	return nil
}

func tagPath(id int64) string {
	return "/tags/" + strconv.FormatInt(id, 10) + "/"
}
