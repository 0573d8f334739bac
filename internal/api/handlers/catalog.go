package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbozhik/pickmy/internal/domain"
	"github.com/mbozhik/pickmy/internal/service"
)

// ProductResponse represents a catalog product with its price preview
type ProductResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Caption    string  `json:"caption,omitempty"`
	Slug       string  `json:"slug"`
	Price      string  `json:"price"`
	ImageURL   *string `json:"image_url,omitempty"`
	Featured   bool    `json:"featured"`
	ExpertID   string  `json:"expert_id"`
	CategoryID string  `json:"category_id"`
}

// CategoryResponse represents a catalog category
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Slug        string `json:"slug"`
}

// ExpertResponse represents an expert profile
type ExpertResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Username string `json:"username"`
	Link     string `json:"link,omitempty"`
	Featured bool   `json:"featured"`
}

func toProductResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:         product.ID.String(),
		Name:       product.Name,
		Caption:    product.Caption,
		Slug:       product.Slug,
		Price:      product.Price.String(),
		ImageURL:   product.ImageURL,
		Featured:   product.Featured,
		ExpertID:   product.ExpertID.String(),
		CategoryID: product.CategoryID.String(),
	}
}

func toExpertResponse(expert *domain.Expert) ExpertResponse {
	return ExpertResponse{
		ID:       expert.ID.String(),
		Name:     expert.Name,
		Role:     expert.Role,
		Username: expert.Username,
		Link:     expert.Link,
		Featured: expert.Featured,
	}
}

// HandleListProducts handles GET /v1/catalog/products
func HandleListProducts(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		featured := c.Query("featured") == "true"
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

		var (
			products []*domain.Product
			err      error
		)
		if expert := c.Query("expert"); expert != "" {
			products, err = catalog.ListProductsByExpert(c.Request.Context(), expert)
		} else {
			products, err = catalog.ListProducts(c.Request.Context(), featured, limit)
		}
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]ProductResponse, 0, len(products))
		for _, product := range products {
			responses = append(responses, toProductResponse(product))
		}
		c.JSON(http.StatusOK, gin.H{"products": responses})
	}
}

// HandleGetProduct handles GET /v1/catalog/products/:slug with the
// single-unit price preview.
func HandleGetProduct(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		quote, err := catalog.QuoteBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"product":     toProductResponse(quote.Product),
			"commission":  quote.Commission.String(),
			"final_price": quote.FinalPrice.String(),
		})
	}
}

// HandleListExperts handles GET /v1/catalog/experts
func HandleListExperts(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		featured := c.Query("featured") == "true"
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

		experts, err := catalog.ListExperts(c.Request.Context(), featured, limit)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]ExpertResponse, 0, len(experts))
		for _, expert := range experts {
			responses = append(responses, toExpertResponse(expert))
		}
		c.JSON(http.StatusOK, gin.H{"experts": responses})
	}
}

// HandleGetExpert handles GET /v1/catalog/experts/:username
func HandleGetExpert(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Param("username")
		expert, err := catalog.GetExpert(c.Request.Context(), username)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		products, err := catalog.ListProductsByExpert(c.Request.Context(), username)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		productResponses := make([]ProductResponse, 0, len(products))
		for _, product := range products {
			productResponses = append(productResponses, toProductResponse(product))
		}
		c.JSON(http.StatusOK, gin.H{
			"expert":   toExpertResponse(expert),
			"products": productResponses,
		})
	}
}

// HandleListCategories handles GET /v1/catalog/categories
func HandleListCategories(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := catalog.ListCategories(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]CategoryResponse, 0, len(categories))
		for _, category := range categories {
			responses = append(responses, CategoryResponse{
				ID:          category.ID.String(),
				Name:        category.Name,
				Description: category.Description,
				Slug:        category.Slug,
			})
		}
		c.JSON(http.StatusOK, gin.H{"categories": responses})
	}
}
