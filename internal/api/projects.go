package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cone387/ttask/internal/models"
)

// ProjectInput is the create/update payload for a project.
type ProjectInput struct {
	Name     string `json:"name"`
	Desc     string `json:"description,omitempty"`
	Color    string `json:"color,omitempty"`
	Favorite *bool  `json:"is_favorite,omitempty"`
}

// ListProjects returns every project, pagination unwrapped.
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	projects, err := getList[models.Project](ctx, c, "/projects/")
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (c *Client) CreateProject(ctx context.Context, in ProjectInput) (models.Project, error) {
	var p models.Project
	if err := c.do(ctx, http.MethodPost, "/projects/", in, &p); err != nil {
		return models.Project{}, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

func (c *Client) UpdateProject(ctx context.Context, id int64, in ProjectInput) (models.Project, error) {
	var p models.Project
	if err := c.do(ctx, http.MethodPatch, projectPath(id), in, &p); err != nil {
		return models.Project{}, fmt.Errorf("update project %d: %w", id, err)
	}
	return p, nil
}

func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, projectPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	return nil
}

func projectPath(id int64) string {
	return "/projects/" + strconv.FormatInt(id, 10) + "/"
}
