package catalog

import "github.com/fjod/rocketshoes-cart/internal/domain"

const imageBase = "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/"

// Seed loads the storefront's demo sneakers and their stock into inv.
func Seed(inv *Inventory) {
	demo := []struct {
		product domain.Product
		stock   int
	}{
		{domain.Product{ID: 1, Title: "Tênis de Caminhada Leve Confortável", Price: 179.9, ImageURL: imageBase + "tenis1.jpg"}, 3},
		{domain.Product{ID: 2, Title: "Tênis VR Caminhada Confortável Detalhes Couro Masculino", Price: 139.9, ImageURL: imageBase + "tenis2.jpg"}, 5},
		{domain.Product{ID: 3, Title: "Tênis Adidas Duramo Lite 2.0", Price: 219.9, ImageURL: imageBase + "tenis3.jpg"}, 2},
		{domain.Product{ID: 4, Title: "Tênis VR Caminhada Confortável Detalhes Couro Masculino", Price: 139.9, ImageURL: imageBase + "tenis2.jpg"}, 1},
		{domain.Product{ID: 5, Title: "Tênis VR Caminhada Confortável Detalhes Couro Masculino", Price: 139.9, ImageURL: imageBase + "tenis2.jpg"}, 5},
		{domain.Product{ID: 6, Title: "Tênis Adidas Duramo Lite 2.0", Price: 219.9, ImageURL: imageBase + "tenis3.jpg"}, 10},
	}
	for _, d := range demo {
		inv.SetProduct(d.product, d.stock)
	}
}
