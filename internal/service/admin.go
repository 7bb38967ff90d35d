package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/ardhiansyah/toko-api/internal/apperr"
	"github.com/ardhiansyah/toko-api/internal/imagestore"
	"github.com/ardhiansyah/toko-api/internal/logging"
	"github.com/ardhiansyah/toko-api/internal/models"
	"github.com/ardhiansyah/toko-api/internal/mykafka"
	"github.com/ardhiansyah/toko-api/internal/repo"
	"github.com/ardhiansyah/toko-api/internal/search"
	"github.com/ardhiansyah/toko-api/internal/transport"
)

// AdminService backs the HTML dashboard: a single-image create path and an
// unpaginated listing.
type AdminService struct {
	Repo     *repo.GormRepo
	Uploader imagestore.Uploader
	Producer *mykafka.Producer
	Index    *search.Index
}

func (s *AdminService) CreateProduct(ctx context.Context, input transport.CreateProductInput, actor transport.Actor, file *multipart.FileHeader) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "admin.create_product")

	f, err := file.Open()
	if err != nil {
		l.Error("admin_create_error", "status", 502, "reason", "cannot read upload", "error", err)
		return nil, apperr.Upstream("Image upload failed", err)
	}
	url, err := s.Uploader.Upload(ctx, imagestore.ObjectName(file.Filename), f)
	f.Close()
	if err != nil {
		l.Error("admin_create_error", "status", 502, "reason", "image upload rejected", "error", err)
		return nil, apperr.Upstream("Image upload failed", err)
	}

	shopID := DefaultShopID
	if actor.ShopID != nil {
		shopID = *actor.ShopID
	}

	prod := &models.Product{
		Name:      input.Name,
		Price:     input.Price,
		Stock:     input.Stock,
		ImageURLs: []string{url},
		UserID:    actor.ID,
		ShopID:    shopID,
	}
	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		l.Error("admin_create_error", "status", 502, "reason", "cannot add product to db", "error", err)
		return nil, apperr.Upstream("cannot add product to db", err)
	}

	if err := s.Index.IndexProduct(ctx, prod); err != nil {
		l.Error("es_index_error", "productID", prod.ID, "error", err)
	}
	event := map[string]interface{}{
		"type":      "product_created",
		"productID": prod.ID,
		"userID":    actor.ID,
		"name":      prod.Name,
	}
	if err := s.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(actor.ID), event); err != nil {
		l.Error("kafka_publish_error", "error", err)
	}

	l.Info("admin_create_success", "productID", prod.ID)
	return prod, nil
}

func (s *AdminService) ListProducts(ctx context.Context) ([]models.Product, error) {
	items, err := s.Repo.AllProducts(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("admin_list_error", "status", 502, "error", err)
		return nil, apperr.Upstream("cannot get products", err)
	}
	return items, nil
}
