package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"backend-template/internal/domain"
	"backend-template/internal/service"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	Type      string      `json:"type"`
	ExpiresAt time.Time   `json:"expiresAt"`
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Role      domain.Role `json:"role"`
}

type UserResponse struct {
	ID            string      `json:"id"`
	Email         string      `json:"email"`
	FirstName     string      `json:"firstName"`
	LastName      string      `json:"lastName"`
	PhoneNumber   string      `json:"phoneNumber,omitempty"`
	Address       string      `json:"address,omitempty"`
	City          string      `json:"city,omitempty"`
	Country       string      `json:"country,omitempty"`
	PostalCode    string      `json:"postalCode,omitempty"`
	Role          domain.Role `json:"role"`
	EmailVerified bool        `json:"emailVerified"`
	IsActive      bool        `json:"isActive"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	InStock     bool            `json:"inStock"`
	Category    string          `json:"category,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	SKU         string          `json:"sku"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

func loginToResponse(res *service.LoginResult) LoginResponse {
	return LoginResponse{
		Token:     res.Token.Token,
		Type:      "Bearer",
		ExpiresAt: res.Token.ExpiresAt,
		ID:        res.User.ID,
		Email:     res.User.Email,
		FirstName: res.User.FirstName,
		LastName:  res.User.LastName,
		Role:      res.User.Role,
	}
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		PhoneNumber:   u.PhoneNumber,
		Address:       u.Address,
		City:          u.City,
		Country:       u.Country,
		PostalCode:    u.PostalCode,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func productToResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		InStock:     p.InStock(),
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		SKU:         p.SKU,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func pageToResponse[T, R any](p domain.Page[T], fn func(T) R) PageResponse[R] {
	mapped := domain.MapPage(p, fn)
	return PageResponse[R]{
		Content:       mapped.Content,
		Page:          mapped.Page,
		Size:          mapped.Size,
		TotalElements: mapped.TotalElements,
		TotalPages:    mapped.TotalPages,
		First:         mapped.First(),
		Last:          mapped.Last(),
	}
}

// pageRequest reads the page and size query parameters. Malformed values fall
// back to the defaults.
func pageRequest(c *gin.Context) domain.PageRequest {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		page = 0
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(domain.DefaultPageSize)))
	if err != nil {
		size = domain.DefaultPageSize
	}
	return domain.PageRequest{Page: page, Size: size}.Normalize()
}
