package seeders

import (
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func init() {
	Register("admin_user", SeedAdminUser)
	Register("products", SeedProducts)
}

// SeedAdminUser creates the default administrator account.
func SeedAdminUser(db *gorm.DB) error {
	hash, err := auth.HashPassword("admin12345")
	if err != nil {
		return err
	}
	admin := models.User{
		Name:     "Vastra Admin",
		Email:    "admin@vastra.app",
		Password: hash,
		Role:     "admin",
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&admin).Error
}

// SeedProducts inserts a small demo catalogue.
func SeedProducts(db *gorm.DB) error {
	products := []models.Product{
		{Name: "Banarasi Silk Saree", Description: "Handwoven silk saree with zari work", Price: 4999, Stock: 25, SKU: "VS-SAREE-001", Image: "products/saree-001.jpg"},
		{Name: "Cotton Kurta", Description: "Block-printed cotton kurta", Price: 1299, Stock: 80, SKU: "VS-KURTA-001", Image: "products/kurta-001.jpg"},
		{Name: "Chanderi Dupatta", Description: "Lightweight chanderi dupatta", Price: 899, Stock: 50, SKU: "VS-DUP-001", Image: "products/dupatta-001.jpg"},
		{Name: "Linen Shirt", Description: "Relaxed-fit linen shirt", Price: 1799, Stock: 60, SKU: "VS-SHIRT-001", Image: "products/shirt-001.jpg"},
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}
