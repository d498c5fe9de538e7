package api

import "time"

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// PackageResponse is one pricing package.
type PackageResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Timeline    string   `json:"timeline"`
	Description string   `json:"description"`
	Pages       string   `json:"pages"`
	Revisions   string   `json:"revisions"`
	Popular     bool     `json:"popular"`
	ProjectType string   `json:"projectType"`
	Features    []string `json:"features"`
}

// PackagesResponse lists the catalog in display order.
type PackagesResponse struct {
	DefaultID string            `json:"defaultId"`
	Packages  []PackageResponse `json:"packages"`
}

// RepositoryResponse is one portfolio repository.
type RepositoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	URL         string    `json:"url"`
	HomepageURL *string   `json:"homepageUrl"`
	Language    *string   `json:"language"`
	StarCount   int       `json:"starCount"`
	ForkCount   int       `json:"forkCount"`
	UpdatedAt   time.Time `json:"updatedAt"`
	IsPrivate   bool      `json:"isPrivate"`
}

// RepositoriesResponse is the portfolio loader state.
type RepositoriesResponse struct {
	Status       string               `json:"status"`
	Error        string               `json:"error,omitempty"`
	Generation   uint64               `json:"generation"`
	UpdatedAt    *time.Time           `json:"updatedAt,omitempty"`
	Repositories []RepositoryResponse `json:"repositories"`
}

// EventRequest is a client-side analytics event.
type EventRequest struct {
	Name  string            `json:"name"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// HealthResponse reports liveness and the portfolio loader status.
type HealthResponse struct {
	Status    string `json:"status"`
	Portfolio string `json:"portfolio"`
}
