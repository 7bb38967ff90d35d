package search

import (
	"github.com/elastic/go-elasticsearch/v9"

	"github.com/ardhiansyah/toko-api/internal/config"
)

const ProductIndex = "product"

func NewClient(cfg *config.Config) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: []string{cfg.ES_URL},
		Username:  cfg.ES_USER,
		Password:  cfg.ES_PASSWORD,
	}
	return elasticsearch.NewClient(esCfg)
}
