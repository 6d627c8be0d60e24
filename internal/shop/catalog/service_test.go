// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package catalog_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewcraft/api/internal/platform/apperr"
	"github.com/sewcraft/api/internal/shop/catalog"
)

// fakeRepository is an in-memory product store.
type fakeRepository struct {
	byID map[string]*catalog.Product
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byID: map[string]*catalog.Product{}}
}

func (f *fakeRepository) List(_ context.Context, filter catalog.Filter, _, _ int) ([]*catalog.Product, int, error) {
	var out []*catalog.Product
	for _, p := range f.byID {
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*catalog.Product, error) {
	if p, ok := f.byID[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, apperr.NotFound("Product")
}

func (f *fakeRepository) FindBySlug(_ context.Context, slug string) (*catalog.Product, error) {
	for _, p := range f.byID {
		if p.Slug == slug {
			clone := *p
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Product")
}

func (f *fakeRepository) Create(_ context.Context, product *catalog.Product) error {
	clone := *product
	f.byID[product.ID] = &clone
	return nil
}

func (f *fakeRepository) Update(_ context.Context, product *catalog.Product) error {
	clone := *product
	f.byID[product.ID] = &clone
	return nil
}

func (f *fakeRepository) SetActive(_ context.Context, id string, active bool) error {
	if p, ok := f.byID[id]; ok {
		p.IsActive = active
	}
	return nil
}

func newService(repo catalog.Repository) *catalog.Service {
	return catalog.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func validProduct() *catalog.Product {
	return &catalog.Product{
		Name:       "Linen Fabric Écru",
		Price:      decimal.RequireFromString("12.50"),
		CategoryID: "018f4a10-0000-7000-8000-000000000001",
		Sizes:      []string{"1m", "2m", "5m"},
	}
}

/*
TestService_CreateProduct tests validation and slug/ID assignment.
*/
func TestService_CreateProduct(t *testing.T) {
	repo := newFakeRepository()
	service := newService(repo)

	product := validProduct()
	require.NoError(t, service.CreateProduct(context.Background(), product))

	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "linen-fabric-ecru", product.Slug, "diacritics fold into the slug")
	assert.True(t, product.IsActive)
}

/*
TestService_CreateProduct_Validation tests the catalogue entry rules.
*/
func TestService_CreateProduct_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*catalog.Product)
	}{
		{"missing_name", func(p *catalog.Product) { p.Name = "" }},
		{"zero_price", func(p *catalog.Product) { p.Price = decimal.Zero }},
		{"negative_price", func(p *catalog.Product) { p.Price = decimal.RequireFromString("-1") }},
		{"no_sizes", func(p *catalog.Product) { p.Sizes = nil }},
		{"bad_category", func(p *catalog.Product) { p.CategoryID = "not-a-uuid" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(newFakeRepository())
			product := validProduct()
			tt.mutate(product)

			err := service.CreateProduct(context.Background(), product)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidationError))
		})
	}
}

/*
TestService_GetProduct tests the UUID/slug discriminator.
*/
func TestService_GetProduct(t *testing.T) {
	repo := newFakeRepository()
	service := newService(repo)

	product := validProduct()
	require.NoError(t, service.CreateProduct(context.Background(), product))

	byID, err := service.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, byID.ID)

	bySlug, err := service.GetProduct(context.Background(), "linen-fabric-ecru")
	require.NoError(t, err)
	assert.Equal(t, product.ID, bySlug.ID)

	_, err = service.GetProduct(context.Background(), "no-such-slug")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestService_SetProductActive tests archiving off the storefront.
*/
func TestService_SetProductActive(t *testing.T) {
	repo := newFakeRepository()
	service := newService(repo)

	product := validProduct()
	require.NoError(t, service.CreateProduct(context.Background(), product))
	require.NoError(t, service.SetProductActive(context.Background(), product.ID, false))

	listed, total, err := service.ListProducts(context.Background(), catalog.Filter{ActiveOnly: true}, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, listed)
	assert.Zero(t, total)
}
