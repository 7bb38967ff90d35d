package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"gorm.io/gorm"

	"github.com/ardhiansyah/toko-api/internal/apperr"
	"github.com/ardhiansyah/toko-api/internal/imagestore"
	"github.com/ardhiansyah/toko-api/internal/logging"
	"github.com/ardhiansyah/toko-api/internal/models"
	"github.com/ardhiansyah/toko-api/internal/mykafka"
	"github.com/ardhiansyah/toko-api/internal/repo"
	"github.com/ardhiansyah/toko-api/internal/search"
	"github.com/ardhiansyah/toko-api/internal/transport"
	"github.com/ardhiansyah/toko-api/internal/util"
)

type ProductService struct {
	Repo     *repo.GormRepo
	Uploader imagestore.Uploader
	Producer *mykafka.Producer
	Index    *search.Index
}

type ProductList struct {
	Products    []models.Product `json:"products"`
	TotalCount  int64            `json:"totalCount"`
	CurrentPage int              `json:"currentPage"`
	TotalPages  int64            `json:"totalPages"`
}

func (s *ProductService) CreateProduct(ctx context.Context, input transport.CreateProductInput, actor transport.Actor, files []*multipart.FileHeader) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "product.create")

	var shopID uint
	if actor.IsAdmin() {
		if input.ShopID == nil {
			l.Warn("product_create_error", "status", 400, "reason", "shopId missing for admin")
			return nil, apperr.Validation("shopId is required for Admin")
		}
		shopID = *input.ShopID
	} else {
		if actor.ShopID == nil {
			l.Warn("product_create_error", "status", 400, "reason", "actor has no shop")
			return nil, apperr.Validation("actor has no shop")
		}
		shopID = *actor.ShopID
	}

	urls, err := s.uploadAll(ctx, files)
	if err != nil {
		l.Error("product_create_error", "status", 502, "reason", "image upload failed", "error", err)
		return nil, apperr.Upstream("Image upload failed", err)
	}

	prod := &models.Product{
		Name:      input.Name,
		Price:     input.Price,
		Stock:     input.Stock,
		ImageURLs: urls,
		UserID:    actor.ID,
		ShopID:    shopID,
	}

	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		l.Error("product_create_error", "status", 502, "reason", "cannot add product to db", "error", err)
		return nil, apperr.Upstream("cannot add product to db", err)
	}

	s.syncIndex(ctx, prod)
	s.publish(ctx, map[string]interface{}{
		"type":      "product_created",
		"productID": prod.ID,
		"userID":    actor.ID,
		"name":      prod.Name,
	})

	l.Info("product_create_success", "productID", prod.ID)
	return prod, nil
}

// uploadAll uploads every file independently and keeps the resulting URLs
// in the order the files arrived.
func (s *ProductService) uploadAll(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		url, err := s.Uploader.Upload(ctx, imagestore.ObjectName(fh.Filename), f)
		f.Close()
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *ProductService) FindProducts(ctx context.Context, page, limit int) (*ProductList, error) {
	l := logging.FromContext(ctx).With("svc", "product.list")

	offset, size := util.Calculate(page, limit)
	if page < 1 {
		page = 1
	}

	total, items, err := s.Repo.GetProducts(ctx, offset, size)
	if err != nil {
		l.Error("product_list_error", "status", 502, "error", err)
		return nil, apperr.Upstream("cannot get products", err)
	}

	return &ProductList{
		Products:    items,
		TotalCount:  total,
		CurrentPage: page,
		TotalPages:  util.TotalPages(total, size),
	}, nil
}

func (s *ProductService) FindProductByID(ctx context.Context, id uint) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "product.get")

	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("product_get_error", "status", 404, "productID", id)
			return nil, apperr.NotFound("Product not found")
		}
		l.Error("product_get_error", "status", 502, "error", err)
		return nil, apperr.Upstream("cannot get product", err)
	}
	return prod, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uint, req transport.PatchProductRequest, actor transport.Actor) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "product.update", "productID", id)

	prod, err := s.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanMutateProduct(actor, prod) {
		l.Warn("product_update_error", "status", 403, "actorID", actor.ID)
		return nil, apperr.Forbidden("you cannot modify products of another shop")
	}

	if req.Name != nil {
		prod.Name = *req.Name
	}
	if req.Price != nil {
		prod.Price = *req.Price
	}
	if req.Stock != nil {
		prod.Stock = *req.Stock
	}

	if err := s.Repo.SaveProduct(ctx, prod); err != nil {
		l.Error("product_update_error", "status", 502, "error", err)
		return nil, apperr.Upstream("cannot update product", err)
	}

	s.syncIndex(ctx, prod)
	s.publish(ctx, map[string]interface{}{
		"type":      "product_updated",
		"productID": prod.ID,
		"userID":    actor.ID,
		"name":      prod.Name,
	})

	l.Info("product_update_success")
	return prod, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uint, actor transport.Actor) error {
	l := logging.FromContext(ctx).With("svc", "product.delete", "productID", id)

	prod, err := s.FindProductByID(ctx, id)
	if err != nil {
		return err
	}

	if !CanMutateProduct(actor, prod) {
		l.Warn("product_delete_error", "status", 403, "actorID", actor.ID)
		return apperr.Forbidden("you cannot modify products of another shop")
	}

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("product_delete_error", "status", 404)
			return apperr.NotFound("Product not found")
		}
		l.Error("product_delete_error", "status", 502, "error", err)
		return apperr.Upstream("cannot delete product", err)
	}

	if err := s.Index.DeleteProduct(ctx, id); err != nil {
		l.Error("es_delete_error", "error", err)
	}
	s.publish(ctx, map[string]interface{}{
		"type":      "product_deleted",
		"productID": id,
		"userID":    actor.ID,
	})

	l.Info("product_delete_success")
	return nil
}

func (s *ProductService) SearchProducts(ctx context.Context, query string, page, limit int) (int64, []models.Product, error) {
	from, size := util.Calculate(page, limit)

	total, items, err := s.Index.Search(ctx, query, from, size)
	if err != nil {
		return 0, nil, apperr.Upstream("search failed", err)
	}
	return total, items, nil
}

func (s *ProductService) syncIndex(ctx context.Context, prod *models.Product) {
	if err := s.Index.IndexProduct(ctx, prod); err != nil {
		logging.FromContext(ctx).Error("es_index_error", "productID", prod.ID, "error", err)
	}
}

func (s *ProductService) publish(ctx context.Context, event map[string]interface{}) {
	if err := s.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["userID"]), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "error", err)
	}
}
