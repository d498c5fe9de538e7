package portfolio

import (
	"context"
	"sort"
	"time"
)

// Repository is the display projection of one public source repository.
type Repository struct {
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

// Lister fetches the repository list from the listing endpoint.
type Lister interface {
	ListRepositories(ctx context.Context) ([]Repository, error)
}

// ListerFunc adapts a function to Lister.
type ListerFunc func(ctx context.Context) ([]Repository, error)

// ListRepositories calls f(ctx).
func (f ListerFunc) ListRepositories(ctx context.Context) ([]Repository, error) {
	return f(ctx)
}

// SortByUpdated orders repos most recently updated first. Equal timestamps
// keep their input order.
func SortByUpdated(repos []Repository) {
	sort.SliceStable(repos, func(i, j int) bool {
		return repos[i].UpdatedAt.After(repos[j].UpdatedAt)
	})
}
