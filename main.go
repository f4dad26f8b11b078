package main

import (
	"github.com/sirupsen/logrus"

	"github.com/mikkimase/storefront/cmd"
)

func main() {
	if err := cmd.RootCommand().Execute(); err != nil {
		logrus.Fatal(err)
	}
}
