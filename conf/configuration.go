package conf

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mikkimase/storefront/assetstores"
	"github.com/mikkimase/storefront/mailer"
	"github.com/mikkimase/storefront/payments/stripe"
	"github.com/mikkimase/storefront/products"
)

// InsecureDevSecret is the download-token signing fallback used when no
// secret is configured. Acceptable only for local development; startup
// fails if it would be used in production.
const InsecureDevSecret = "dev-secret-change-in-production"

// APIConfig holds the HTTP listener settings.
type APIConfig struct {
	Host string `envconfig:"host"`
	Port int    `envconfig:"port" default:"8080"`
}

// JWTConfig holds the settings for verifying operator bearer tokens.
type JWTConfig struct {
	Secret         string `envconfig:"secret"`
	AdminGroupName string `envconfig:"admin_group_name" default:"admin"`
}

// DownloadsConfig holds the download-token signing settings. Expiry is
// in seconds and defaults to 7 days.
type DownloadsConfig struct {
	Secret string `envconfig:"secret"`
	Expiry int    `envconfig:"expiry" default:"604800"`
}

// Configuration is the complete environment-provided configuration,
// processed under the STOREFRONT prefix.
type Configuration struct {
	Env       string             `envconfig:"env"`
	SiteURL   string             `envconfig:"site_url" default:"http://localhost:8080"`
	API       APIConfig          `envconfig:"api"`
	Logging   LoggingConfig      `envconfig:"log"`
	JWT       JWTConfig          `envconfig:"jwt"`
	Downloads DownloadsConfig    `envconfig:"downloads"`
	Products  products.Config    `envconfig:"products"`
	Assets    assetstores.Config `envconfig:"assets"`
	Payment   struct {
		Stripe stripe.Config `envconfig:"stripe"`
	} `envconfig:"payment"`
	Mailer mailer.Config `envconfig:"mailer"`
}

// LoadConfig reads the environment (optionally seeded from a .env file)
// into a validated Configuration.
func LoadConfig(filename string) (*Configuration, error) {
	if err := loadEnvironment(filename); err != nil {
		return nil, errors.Wrap(err, "error loading environment")
	}

	config := new(Configuration)
	if err := envconfig.Process("storefront", config); err != nil {
		return nil, errors.Wrap(err, "error processing environment")
	}

	if err := ConfigureLogging(&config.Logging); err != nil {
		return nil, errors.Wrap(err, "error configuring logging")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func loadEnvironment(filename string) error {
	var err error
	if filename != "" {
		err = godotenv.Load(filename)
	} else {
		err = godotenv.Load()
		// a missing default .env is fine
		if os.IsNotExist(err) {
			return nil
		}
	}
	return err
}

// Production reports whether this deployment must refuse insecure
// development fallbacks.
func (c *Configuration) Production() bool {
	return c.Env == "production"
}

// TokenTTL is the configured download-token lifetime.
func (c *Configuration) TokenTTL() time.Duration {
	return time.Duration(c.Downloads.Expiry) * time.Second
}

// Validate enforces the secret policy: operator-provided secrets must be
// at least 256 bits, and the dev fallback is fatal in production.
func (c *Configuration) Validate() error {
	switch {
	case c.Downloads.Secret == "":
		if c.Production() {
			return errors.New("a download token secret is required in production: set STOREFRONT_DOWNLOADS_SECRET")
		}
		logrus.Warn("STOREFRONT_DOWNLOADS_SECRET not set - falling back to the insecure development secret")
		c.Downloads.Secret = InsecureDevSecret
	case len(c.Downloads.Secret) < 32:
		return errors.New("download token secret must be at least 256 bits (32 bytes)")
	}

	if c.Downloads.Expiry <= 0 {
		return errors.New("download token expiry must be positive")
	}
	return nil
}
