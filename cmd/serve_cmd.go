package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mikkimase/storefront/api"
	"github.com/mikkimase/storefront/assetstores"
	"github.com/mikkimase/storefront/conf"
	"github.com/mikkimase/storefront/downloads"
	"github.com/mikkimase/storefront/fulfillment"
	"github.com/mikkimase/storefront/mailer"
	"github.com/mikkimase/storefront/payments/stripe"
	"github.com/mikkimase/storefront/products"
)

var serveCmd = cobra.Command{
	Use:  "serve",
	Long: "Start the storefront API server",
	Run: func(cmd *cobra.Command, args []string) {
		execWithConfig(cmd, serve)
	},
}

func serve(config *conf.Configuration) {
	registry, err := products.NewRegistry(config.Products)
	if err != nil {
		logrus.Fatalf("Error loading product registry: %+v", err)
	}

	provider, err := stripe.NewPaymentProvider(config.SiteURL, config.Payment.Stripe)
	if err != nil {
		logrus.Fatalf("Error configuring payment provider: %+v", err)
	}

	store, err := assetstores.NewStore(config.Assets)
	if err != nil {
		logrus.Fatalf("Error configuring asset store: %+v", err)
	}

	signer := downloads.NewSigner(config.Downloads.Secret, config.TokenTTL())
	m := mailer.NewMailer(config.SiteURL, config.Mailer)
	handler := fulfillment.NewHandler(registry, signer, m, config.SiteURL, nil)

	apiServer := api.NewAPIWithVersion(config, registry, signer, provider, handler, store, Version)

	l := fmt.Sprintf("%v:%v", config.API.Host, config.API.Port)
	logrus.Infof("Storefront API started on: %s", l)
	apiServer.ListenAndServe(l)
}
