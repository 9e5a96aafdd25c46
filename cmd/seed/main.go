// Command seed populates the products table with generated catalog data,
// mirroring what an external seeding process would provide in production.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"

	"picklist/internal/domain/model"
	"picklist/internal/domain/repository"
	"picklist/internal/platform/config"
	"picklist/internal/platform/database"

	"github.com/gosimple/slug"
)

var productCategories = []string{
	"Electronics",
	"Books",
	"Clothing",
	"Home & Kitchen",
	"Sports",
	"Toys",
	"Beauty",
	"Automotive",
	"Health",
	"Garden",
}

var nameWords = []string{
	"Atlas", "Breeze", "Cobalt", "Delta", "Ember", "Falcon", "Granite",
	"Harbor", "Indigo", "Juniper", "Kestrel", "Lumen", "Meridian", "Nimbus",
	"Onyx", "Pioneer", "Quartz", "Ridge", "Summit", "Terra", "Umber",
	"Vertex", "Willow", "Zephyr",
}

var descriptionTemplates = []string{
	"Reliable everyday choice for %s enthusiasts.",
	"Compact and durable, a staple of any %s collection.",
	"Premium quality at a fair price in the %s range.",
	"Lightweight design built for the %s category.",
	"A best-selling item from our %s lineup.",
}

func main() {
	count := flag.Int("count", 0, "number of products to create (defaults to SEED_COUNT)")
	flag.Parse()

	config.Load()
	if *count <= 0 {
		*count = config.AppConfig.SeedCount
	}

	database.Connect()
	defer database.Close()

	productRepo := repository.NewPgProductRepository(database.DB)

	log.Printf("Seeding %d products...", *count)
	ctx := context.Background()
	for i := 0; i < *count; i++ {
		category := productCategories[rand.Intn(len(productCategories))]
		word := nameWords[rand.Intn(len(nameWords))]
		name := fmt.Sprintf("%s %s", word, category)

		// Price in [9.99, 999.99], generated in cents so the decimal
		// string is exact.
		cents := 999 + rand.Intn(99999-999+1)
		product := &model.Product{
			Name:        name,
			Slug:        fmt.Sprintf("%s-%d", slug.Make(name), i+1),
			Description: fmt.Sprintf(descriptionTemplates[rand.Intn(len(descriptionTemplates))], category),
			Price:       fmt.Sprintf("%d.%02d", cents/100, cents%100),
			Stock:       rand.Intn(101),
		}
		if err := productRepo.Create(ctx, product); err != nil {
			log.Fatalf("Failed to create product %q: %v", name, err)
		}
	}
	log.Printf("Successfully created %d products", *count)
}
