package api

import (
	"github.com/boswecw/boswell/internal/portfolio"
)

// portfolioReader exposes the repository list state needed by the API.
type portfolioReader interface {
	State() portfolio.State
}
