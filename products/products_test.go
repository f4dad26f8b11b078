package products

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJSON = `{
	"products": {
		"bedroom-boss": {
			"slug": "bedroom-boss",
			"type": "ebook",
			"fulfillment": "digital",
			"name": "Bedroom Boss",
			"price": 2900,
			"currency": "USD",
			"stripe_price_id": "price_123",
			"download_url": "https://assets.example.com/bedroom-boss-v1.pdf"
		}
	}
}`

func TestStaticRegistryLookup(t *testing.T) {
	registry := NewStaticRegistry(&Product{ID: "bedroom-boss", Name: "Bedroom Boss", Fulfillment: FulfillmentDigital})

	p, err := registry.Lookup("bedroom-boss")
	require.NoError(t, err)
	assert.Equal(t, "Bedroom Boss", p.Name)
	assert.True(t, p.Digital())
	assert.False(t, p.Shippable())

	_, err = registry.Lookup("nope")
	assert.IsType(t, &NotFoundError{}, err)
}

func TestRegistryFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(catalogJSON), 0644))

	registry, err := NewRegistryFromFile(path)
	require.NoError(t, err)

	p, err := registry.Lookup("bedroom-boss")
	require.NoError(t, err)
	assert.Equal(t, "bedroom-boss", p.ID)
	assert.Equal(t, "price_123", p.StripePriceID)

	_, err = registry.Lookup("missing")
	assert.IsType(t, &NotFoundError{}, err)
}

func TestRegistryFromURLCaches(t *testing.T) {
	fetches := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "catalog-user", user)
		assert.Equal(t, "catalog-pass", pass)
		w.Write([]byte(catalogJSON))
	}))
	defer server.Close()

	registry, err := NewRegistry(Config{URL: server.URL, User: "catalog-user", Password: "catalog-pass"})
	require.NoError(t, err)

	p, err := registry.Lookup("bedroom-boss")
	require.NoError(t, err)
	assert.Equal(t, "Bedroom Boss", p.Name)

	_, err = registry.Lookup("missing")
	assert.IsType(t, &NotFoundError{}, err)

	assert.Equal(t, 1, fetches, "lookups within the cache window must not re-fetch")
}

func TestRegistryRequiresASource(t *testing.T) {
	_, err := NewRegistry(Config{})
	assert.Error(t, err)
}
