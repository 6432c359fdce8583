package http

import (
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"backend-template/internal/service"
)

const maxImageBytes = 10 << 20

func (h *Handler) listProducts(c *gin.Context) {
	page, err := h.products.List(c.Request.Context(), pageRequest(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusOK, "Products retrieved", pageToResponse(page, productToResponse))
}

func (h *Handler) searchProducts(c *gin.Context) {
	page, err := h.products.SearchByName(c.Request.Context(), c.Query("name"), pageRequest(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusOK, "Products retrieved", pageToResponse(page, productToResponse))
}

func (h *Handler) listProductsByCategory(c *gin.Context) {
	page, err := h.products.ListByCategory(c.Request.Context(), c.Param("category"), pageRequest(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusOK, "Products retrieved", pageToResponse(page, productToResponse))
}

func (h *Handler) listInStock(c *gin.Context) {
	page, err := h.products.ListInStock(c.Request.Context(), pageRequest(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusOK, "Products retrieved", pageToResponse(page, productToResponse))
}

func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusOK, "Product retrieved", productToResponse(product))
}

func (h *Handler) getProductBySKU(c *gin.Context) {
	product, err := h.products.GetBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusOK, "Product retrieved", productToResponse(product))
}

func (h *Handler) createProduct(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Malformed request body")
		return
	}

	product, err := h.products.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusCreated, "Product created", productToResponse(product))
}

func (h *Handler) updateProduct(c *gin.Context) {
	var req service.ProductUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Malformed request body")
		return
	}

	product, err := h.products.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusOK, "Product updated", productToResponse(product))
}

func (h *Handler) deleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusOK, "Product deleted", nil)
}

func (h *Handler) uploadProductImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)
	header, err := c.FormFile("file")
	if err != nil {
		failWithData(c, http.StatusBadRequest, "Validation failed", gin.H{"file": "an image file is required"})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mime.TypeByExtension(strings.ToLower(path.Ext(header.Filename)))
	}
	if !strings.HasPrefix(contentType, "image/") {
		failWithData(c, http.StatusBadRequest, "Validation failed", gin.H{"file": "must be an image"})
		return
	}

	product, err := h.products.AttachImage(c.Request.Context(), c.Param("id"), service.ImageUpload{
		Filename:    header.Filename,
		ContentType: contentType,
		Body:        file,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusOK, "Product image uploaded", productToResponse(product))
}

func (h *Handler) productImage(c *gin.Context) {
	url, err := h.products.ImageURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}
