package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/require"

	"github.com/ardhiansyah/toko-api/internal/apperr"
	"github.com/ardhiansyah/toko-api/internal/models"
	"github.com/ardhiansyah/toko-api/internal/search"
)

func (env *testEnv) seedProduct(name string, price float64, userID, shopID uint) *models.Product {
	prod := &models.Product{
		Name:   name,
		Price:  price,
		Stock:  10,
		UserID: userID,
		ShopID: shopID,
	}
	require.NoError(env.T, env.DB.Create(prod).Error)
	return prod
}

func TestCreateProductAdminRequiresShopID(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser("Admin User", models.RoleAdmin, 1)

	fields := map[string]string{"name": "Test Product", "price": "100", "stock": "10"}
	_, c := env.doMultipartRequest(http.MethodPost, "/api/v1/products", fields, nil)
	setActor(c, actorFor(admin, "admin@example.com"))

	err := env.P.CreateProduct(c)
	require.Error(t, err)

	ae := apperr.From(err)
	require.NotNil(t, ae)
	require.Equal(t, http.StatusBadRequest, ae.StatusCode)

	var count int64
	env.DB.Model(&models.Product{}).Count(&count)
	require.Equal(t, int64(0), count)
}

func TestCreateProductAdminWithShopID(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser("Admin User", models.RoleAdmin, 1)

	fields := map[string]string{"name": "Test Product", "price": "100", "stock": "10", "shopId": "7"}
	rec, c := env.doMultipartRequest(http.MethodPost, "/api/v1/products", fields, nil)
	setActor(c, actorFor(admin, "admin@example.com"))

	require.NoError(t, env.P.CreateProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			NewProduct models.Product `json:"newProduct"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Success", resp.Status)
	require.Equal(t, "Test Product", resp.Data.NewProduct.Name)
	require.Equal(t, uint(7), resp.Data.NewProduct.ShopID)
	require.Equal(t, admin.ID, resp.Data.NewProduct.UserID)

	var stored models.Product
	require.NoError(t, env.DB.First(&stored, resp.Data.NewProduct.ID).Error)
	require.Equal(t, uint(7), stored.ShopID)
}

func TestCreateProductUserDerivesShopID(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("Regular User", models.RoleUser, 3)

	fields := map[string]string{"name": "Test Product", "price": "100", "stock": "10"}
	rec, c := env.doMultipartRequest(http.MethodPost, "/api/v1/products", fields, nil)
	setActor(c, actorFor(user, "user@example.com"))

	require.NoError(t, env.P.CreateProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Product
	require.NoError(t, env.DB.First(&stored).Error)
	require.Equal(t, uint(3), stored.ShopID)
}

func TestCreateProductUploadsAllFiles(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser("Admin User", models.RoleAdmin, 1)

	fields := map[string]string{"name": "Test Product", "price": "100", "stock": "10", "shopId": "1"}
	files := []formFile{
		{field: "images", name: "first.jpg", contents: "aaa"},
		{field: "images", name: "second.png", contents: "bbb"},
		{field: "images", name: "third.jpg", contents: "ccc"},
	}
	rec, c := env.doMultipartRequest(http.MethodPost, "/api/v1/products", fields, files)
	setActor(c, actorFor(admin, "admin@example.com"))

	require.NoError(t, env.P.CreateProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// one upload call per file, original order preserved
	require.Len(t, env.Up.names, 3)
	require.Equal(t, []string{"aaa", "bbb", "ccc"}, env.Up.bodies)

	var stored models.Product
	require.NoError(t, env.DB.First(&stored).Error)
	require.Equal(t, []string{"http://image.url/1", "http://image.url/2", "http://image.url/3"}, stored.ImageURLs)
}

func TestCreateProductUploadFailure(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser("Admin User", models.RoleAdmin, 1)
	env.Up.err = fmt.Errorf("imagekit rejected the file")

	fields := map[string]string{"name": "Test Product", "price": "100", "stock": "10", "shopId": "1"}
	files := []formFile{{field: "images", name: "first.jpg", contents: "aaa"}}
	_, c := env.doMultipartRequest(http.MethodPost, "/api/v1/products", fields, files)
	setActor(c, actorFor(admin, "admin@example.com"))

	err := env.P.CreateProduct(c)
	require.Error(t, err)

	ae := apperr.From(err)
	require.NotNil(t, ae)
	require.Equal(t, http.StatusBadGateway, ae.StatusCode)
	require.Equal(t, "Image upload failed", ae.Message)

	var count int64
	env.DB.Model(&models.Product{}).Count(&count)
	require.Equal(t, int64(0), count)
}

func TestCreateProductNegativePrice(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser("Admin User", models.RoleAdmin, 1)

	fields := map[string]string{"name": "Test Product", "price": "-5", "stock": "10", "shopId": "1"}
	_, c := env.doMultipartRequest(http.MethodPost, "/api/v1/products", fields, nil)
	setActor(c, actorFor(admin, "admin@example.com"))

	err := env.P.CreateProduct(c)
	require.Error(t, err)

	ae := apperr.From(err)
	require.NotNil(t, ae)
	require.Equal(t, http.StatusBadRequest, ae.StatusCode)
}

func TestFindProductsPagination(t *testing.T) {
	env := newTestEnv(t)
	for i := 1; i <= 12; i++ {
		env.seedProduct(fmt.Sprintf("Product %d", i), float64(i), 1, 1)
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/products?page=2&limit=5", nil)
	require.NoError(t, env.P.FindProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Products    []models.Product `json:"products"`
			TotalCount  int64            `json:"totalCount"`
			CurrentPage int              `json:"currentPage"`
			TotalPages  int64            `json:"totalPages"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(12), resp.Data.TotalCount)
	require.Equal(t, 2, resp.Data.CurrentPage)
	require.Equal(t, int64(3), resp.Data.TotalPages)
	require.Len(t, resp.Data.Products, 5)
	// offset (page-1)*limit lands on the 6th row
	require.Equal(t, uint(6), resp.Data.Products[0].ID)
	require.Equal(t, uint(10), resp.Data.Products[4].ID)
}

func TestFindProductByID(t *testing.T) {
	env := newTestEnv(t)
	prod := env.seedProduct("Test Product", 100, 1, 1)

	rec, c := env.doJSONRequest(http.MethodGet, fmt.Sprintf("/api/v1/products/%d", prod.ID), nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(prod.ID))

	require.NoError(t, env.P.FindProductByID(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Product models.Product `json:"product"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, prod.ID, resp.Data.Product.ID)
	require.Equal(t, "Test Product", resp.Data.Product.Name)
}

func TestFindProductByIDNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/api/v1/products/999", nil)
	c.SetParamNames("id")
	c.SetParamValues("999")

	err := env.P.FindProductByID(c)
	require.Error(t, err)

	ae := apperr.From(err)
	require.NotNil(t, ae)
	require.Equal(t, http.StatusNotFound, ae.StatusCode)
}

func TestUpdateProduct(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser("Admin User", models.RoleAdmin, 1)
	prod := env.seedProduct("Test Product", 100, admin.ID, 1)

	rec, c := env.doJSONRequest(http.MethodPatch, fmt.Sprintf("/api/v1/products/%d", prod.ID), map[string]interface{}{
		"name":  "Updated Product",
		"price": 200,
		"stock": 20,
	})
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(prod.ID))
	setActor(c, actorFor(admin, "admin@example.com"))

	require.NoError(t, env.P.UpdateProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Success", resp["status"])
	require.Equal(t, "Success update product", resp["message"])

	var stored models.Product
	require.NoError(t, env.DB.First(&stored, prod.ID).Error)
	require.Equal(t, "Updated Product", stored.Name)
	require.Equal(t, float64(200), stored.Price)
	require.Equal(t, uint(20), stored.Stock)
}

func TestUpdateProductNegativePrice(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser("Admin User", models.RoleAdmin, 1)
	prod := env.seedProduct("Test Product", 100, admin.ID, 1)

	_, c := env.doJSONRequest(http.MethodPatch, fmt.Sprintf("/api/v1/products/%d", prod.ID), map[string]interface{}{
		"price": -1,
	})
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(prod.ID))
	setActor(c, actorFor(admin, "admin@example.com"))

	err := env.P.UpdateProduct(c)
	require.Error(t, err)

	ae := apperr.From(err)
	require.NotNil(t, ae)
	require.Equal(t, http.StatusBadRequest, ae.StatusCode)

	var stored models.Product
	require.NoError(t, env.DB.First(&stored, prod.ID).Error)
	require.Equal(t, float64(100), stored.Price)
}

func TestUpdateProductOtherShop(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser("Admin User", models.RoleAdmin, 2)
	prod := env.seedProduct("Test Product", 100, 99, 1)

	_, c := env.doJSONRequest(http.MethodPatch, fmt.Sprintf("/api/v1/products/%d", prod.ID), map[string]interface{}{
		"name": "Updated Product",
	})
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(prod.ID))
	setActor(c, actorFor(admin, "admin@example.com"))

	err := env.P.UpdateProduct(c)
	require.Error(t, err)

	ae := apperr.From(err)
	require.NotNil(t, ae)
	require.Equal(t, http.StatusForbidden, ae.StatusCode)

	var stored models.Product
	require.NoError(t, env.DB.First(&stored, prod.ID).Error)
	require.Equal(t, "Test Product", stored.Name)
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser("Admin User", models.RoleAdmin, 1)
	prod := env.seedProduct("Test Product", 100, admin.ID, 1)

	rec, c := env.doJSONRequest(http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", prod.ID), nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(prod.ID))
	setActor(c, actorFor(admin, "admin@example.com"))

	require.NoError(t, env.P.DeleteProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Success delete product", resp["message"])

	var count int64
	env.DB.Model(&models.Product{}).Count(&count)
	require.Equal(t, int64(0), count)
}

// fakeES answers every request with the given payload and records the last
// request body, standing in for an Elasticsearch node.
func fakeES(t *testing.T, payload string, lastBody *bytes.Buffer) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastBody.Reset()
		if r.Body != nil {
			_, err := io.Copy(lastBody, r.Body)
			require.NoError(t, err)
		}
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
}

func TestSearchProducts(t *testing.T) {
	env := newTestEnv(t)

	payload := `{"hits":{"total":{"value":7},"hits":[` +
		`{"_source":{"id":1,"name":"Cordless Drill","price":350000,"stock":3}},` +
		`{"_source":{"id":4,"name":"Drill Bit Set","price":99000,"stock":12}}]}}`
	var esBody bytes.Buffer
	srv := fakeES(t, payload, &esBody)
	defer srv.Close()

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	env.P.Svc.Index = &search.Index{ES: es, Name: search.ProductIndex}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/products/search?q=drill&page=2&limit=5", nil)
	require.NoError(t, env.P.SearchProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Total    int64            `json:"total"`
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(7), resp.Total)
	require.Len(t, resp.Products, 2)
	require.Equal(t, "Cordless Drill", resp.Products[0].Name)
	require.Equal(t, uint(4), resp.Products[1].ID)

	// the query body carries the fuzzy multi_match and page 2 as from/size
	var sent struct {
		Query struct {
			MultiMatch struct {
				Query     string   `json:"query"`
				Fields    []string `json:"fields"`
				Fuzziness string   `json:"fuzziness"`
			} `json:"multi_match"`
		} `json:"query"`
		From int `json:"from"`
		Size int `json:"size"`
	}
	require.NoError(t, json.Unmarshal(esBody.Bytes(), &sent))
	require.Equal(t, "drill", sent.Query.MultiMatch.Query)
	require.Equal(t, []string{"name^2"}, sent.Query.MultiMatch.Fields)
	require.Equal(t, "AUTO", sent.Query.MultiMatch.Fuzziness)
	require.Equal(t, 5, sent.From)
	require.Equal(t, 5, sent.Size)
}

func TestSearchProductsMissingQuery(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/api/v1/products/search", nil)
	err := env.P.SearchProducts(c)
	require.Error(t, err)

	ae := apperr.From(err)
	require.NotNil(t, ae)
	require.Equal(t, http.StatusBadRequest, ae.StatusCode)
	require.Equal(t, "query error", ae.Message)
}

func TestSearchProductsBackendError(t *testing.T) {
	env := newTestEnv(t)

	var esBody bytes.Buffer
	srv := fakeES(t, `{"error":{"reason":"index_not_found"}}`, &esBody)
	defer srv.Close()
	// the stub always answers 200, so break the backend by closing it
	srv.Close()

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	env.P.Svc.Index = &search.Index{ES: es, Name: search.ProductIndex}

	_, c := env.doJSONRequest(http.MethodGet, "/api/v1/products/search?q=drill", nil)
	err = env.P.SearchProducts(c)
	require.Error(t, err)

	ae := apperr.From(err)
	require.NotNil(t, ae)
	require.Equal(t, http.StatusBadGateway, ae.StatusCode)
}

func TestDeleteProductNotFound(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser("Admin User", models.RoleAdmin, 1)
	env.seedProduct("Test Product", 100, admin.ID, 1)

	_, c := env.doJSONRequest(http.MethodDelete, "/api/v1/products/999", nil)
	c.SetParamNames("id")
	c.SetParamValues("999")
	setActor(c, actorFor(admin, "admin@example.com"))

	err := env.P.DeleteProduct(c)
	require.Error(t, err)

	ae := apperr.From(err)
	require.NotNil(t, ae)
	require.Equal(t, http.StatusNotFound, ae.StatusCode)

	// nothing was deleted
	var count int64
	env.DB.Model(&models.Product{}).Count(&count)
	require.Equal(t, int64(1), count)
}
