package assetstores

import (
	"github.com/pkg/errors"
)

// Config selects the object-storage provider that serves the actual
// artifacts behind verified downloads.
type Config struct {
	Provider     string `envconfig:"provider"`
	NetlifyToken string `envconfig:"netlify_token"`
}

// Store signs artifact URLs so purchasers can fetch them directly from
// object storage.
type Store interface {
	SignURL(url string) (string, error)
}

// NewStore builds the configured provider. With no provider configured
// artifact URLs are passed through unsigned.
func NewStore(config Config) (Store, error) {
	switch config.Provider {
	case "netlify":
		return newNetlifyProvider(config.NetlifyToken)
	case "":
		return newNoopProvider(), nil
	default:
		return nil, errors.Errorf("unknown asset store provider %q", config.Provider)
	}
}
