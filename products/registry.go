package products

import (
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// CacheTime is how long a fetched catalog is served before re-fetching.
const CacheTime = 1 * time.Minute

type registryResponse struct {
	Products map[string]*Product `json:"products"`
}

// Config selects and configures a registry source.
type Config struct {
	URL      string `envconfig:"url"`
	File     string `envconfig:"file"`
	User     string `envconfig:"user"`
	Password string `envconfig:"password"`
}

// NewRegistry builds a registry from configuration: a remote catalog URL
// takes precedence, then a local JSON file.
func NewRegistry(config Config) (Registry, error) {
	switch {
	case config.URL != "":
		return &registryFromURL{
			url:      config.URL,
			user:     config.User,
			password: config.Password,
			client:   &http.Client{Timeout: 10 * time.Second},
		}, nil
	case config.File != "":
		return NewRegistryFromFile(config.File)
	default:
		return nil, errors.New("no product catalog configured: set a products URL or file")
	}
}

// NewRegistryFromFile loads the catalog once from a JSON file of the
// shape {"products": {"<id>": {...}}}.
func NewRegistryFromFile(path string) (Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading product catalog %s", path)
	}

	response := &registryResponse{}
	if err := json.Unmarshal(raw, response); err != nil {
		return nil, errors.Wrapf(err, "error parsing product catalog %s", path)
	}

	products := map[string]*Product{}
	for id, p := range response.Products {
		p.ID = id
		products[id] = p
	}
	return &staticRegistry{products: products}, nil
}

type registryFromURL struct {
	url      string
	user     string
	password string
	client   *http.Client

	mutex     sync.Mutex
	lastFetch time.Time
	products  map[string]*Product
}

func (r *registryFromURL) Lookup(id string) (*Product, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.products != nil && time.Now().Before(r.lastFetch.Add(CacheTime)) {
		if p, ok := r.products[id]; ok {
			return p, nil
		}
		return nil, &NotFoundError{ID: id}
	}

	req, err := http.NewRequest(http.MethodGet, r.url, nil)
	if err != nil {
		return nil, err
	}
	if r.user != "" {
		req.SetBasicAuth(r.user, r.password)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("product catalog URL returned %v", resp.StatusCode)
	}

	response := &registryResponse{}
	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return nil, err
	}
	for id, p := range response.Products {
		p.ID = id
	}

	r.products = response.Products
	r.lastFetch = time.Now()

	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, &NotFoundError{ID: id}
}
