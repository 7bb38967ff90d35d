package service

import (
	"github.com/ardhiansyah/toko-api/internal/models"
	"github.com/ardhiansyah/toko-api/internal/transport"
)

// CanMutateProduct is the single ownership rule applied to every product
// mutation: an Admin may touch products of their own shop, a regular user
// only products they created. Reads stay unrestricted (the catalog is a
// public storefront).
func CanMutateProduct(actor transport.Actor, product *models.Product) bool {
	if actor.IsAdmin() {
		return actor.ShopID != nil && *actor.ShopID == product.ShopID
	}
	return actor.ID == product.UserID
}
