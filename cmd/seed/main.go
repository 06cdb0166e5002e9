package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/bhmida/bricodirect-backend/config"
	"github.com/bhmida/bricodirect-backend/internal/app/model"
	"github.com/bhmida/bricodirect-backend/internal/db"
	"github.com/bhmida/bricodirect-backend/pkg/util"
)

// Seeds the demo catalog and accounts. With an XLSX path as argument, bulk
// imports products from the file instead (columns: category, subcategory,
// name, sku, price, stock, unit, description).
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	gdb := db.GetDB()

	if len(os.Args) > 1 {
		importFromXLSX(gdb, os.Args[1])
		return
	}

	if err := seedUsers(gdb); err != nil {
		log.Fatal("Failed to seed users:", err)
	}
	if err := seedCatalog(gdb); err != nil {
		log.Fatal("Failed to seed catalog:", err)
	}

	fmt.Println("Seed completed successfully!")
}

func seedUsers(gdb *gorm.DB) error {
	var count int64
	gdb.Model(&model.User{}).Count(&count)
	if count > 0 {
		fmt.Println("Users already present, skipping user seed.")
		return nil
	}

	users := []model.User{
		{
			Email:        "admin@bricodirect.tn",
			Name:         "Administrateur",
			Role:         model.RoleAdmin,
			CustomerType: model.CustomerB2C,
		},
		{
			Email:        "client@example.com",
			Name:         "Sami Trabelsi",
			Phone:        "+216 20 123 456",
			Address:      "12 avenue Habib Bourguiba, Tunis",
			Role:         model.RoleCustomer,
			CustomerType: model.CustomerB2C,
		},
		{
			Email:          "pro@batimat.tn",
			Name:           "Leila Ben Salah",
			CompanyName:    "BATIMAT Construction",
			Phone:          "+216 71 987 654",
			Address:        "Zone industrielle, Sfax",
			Role:           model.RoleCustomer,
			CustomerType:   model.CustomerB2B,
			FinancialLimit: decimal.NewFromInt(20000),
		},
	}

	for i := range users {
		hash, err := util.HashPassword("password123")
		if err != nil {
			return err
		}
		users[i].PasswordHash = hash
		if err := gdb.Create(&users[i]).Error; err != nil {
			return err
		}
	}

	fmt.Printf("Seeded %d users (password: password123)\n", len(users))
	return nil
}

func seedCatalog(gdb *gorm.DB) error {
	var count int64
	gdb.Model(&model.Category{}).Count(&count)
	if count > 0 {
		fmt.Println("Catalog already present, skipping catalog seed.")
		return nil
	}

	construction := model.Category{Name: "Matériaux de construction", Description: "Ciment, fer, agrégats", Position: 1}
	quincaillerie := model.Category{Name: "Quincaillerie", Description: "Visserie, fixations, outillage à main", Position: 2}
	peinture := model.Category{Name: "Peinture", Description: "Peintures et enduits", Position: 3}

	for _, c := range []*model.Category{&construction, &quincaillerie, &peinture} {
		if err := gdb.Create(c).Error; err != nil {
			return err
		}
	}

	ciments := model.Category{Name: "Ciments et liants", ParentID: &construction.ID, Position: 1}
	ferraillage := model.Category{Name: "Fer à béton", ParentID: &construction.ID, Position: 2}
	visserie := model.Category{Name: "Visserie", ParentID: &quincaillerie.ID, Position: 1}

	for _, c := range []*model.Category{&ciments, &ferraillage, &visserie} {
		if err := gdb.Create(c).Error; err != nil {
			return err
		}
	}

	products := []model.Product{
		{
			Name:          "Ciment gris CEM II 42.5",
			Description:   "Sac de 50 kg, usage courant",
			SKU:           "CIM-001",
			BasePrice:     decimal.RequireFromString("14.500"),
			StockQuantity: 800,
			Unit:          "sac",
			CategoryID:    ciments.ID,
			Packs: []model.ProductPack{
				{Label: "Palette de 40 sacs", PackQuantity: 40, Price: decimal.RequireFromString("552.000"), StockQuantity: 15, UnitType: "palette"},
			},
		},
		{
			Name:          "Fer à béton",
			Description:   "Barre de 12 m, acier haute adhérence",
			SKU:           "FER-001",
			BasePrice:     decimal.RequireFromString("18.000"),
			StockQuantity: 0,
			Unit:          "barre",
			CategoryID:    ferraillage.ID,
			Sizes: []model.ProductSize{
				{Label: "Diamètre 8 mm", Price: decimal.RequireFromString("12.300"), StockQuantity: 400, UnitType: "barre", Position: 1},
				{Label: "Diamètre 10 mm", Price: decimal.RequireFromString("18.900"), StockQuantity: 350, UnitType: "barre", Position: 2},
				{Label: "Diamètre 12 mm", Price: decimal.RequireFromString("27.400"), StockQuantity: 200, UnitType: "barre", Position: 3},
			},
		},
		{
			Name:          "Vis à bois 4x40",
			Description:   "Tête fraisée, empreinte Pozidriv",
			SKU:           "VIS-001",
			BasePrice:     decimal.RequireFromString("0.080"),
			StockQuantity: 10000,
			Unit:          "pièce",
			CategoryID:    visserie.ID,
			Packs: []model.ProductPack{
				{Label: "Boîte de 200", PackQuantity: 200, Price: decimal.RequireFromString("13.500"), StockQuantity: 60, UnitType: "boîte"},
				{Label: "Seau de 1000", PackQuantity: 1000, Price: decimal.RequireFromString("59.000"), StockQuantity: 12, UnitType: "seau"},
			},
		},
		{
			Name:          "Peinture acrylique blanche",
			Description:   "Intérieur, finition mate",
			SKU:           "PEI-001",
			BasePrice:     decimal.RequireFromString("38.000"),
			StockQuantity: 120,
			Unit:          "pot 10L",
			CategoryID:    peinture.ID,
			Sizes: []model.ProductSize{
				{Label: "Pot 5 L", Price: decimal.RequireFromString("21.500"), StockQuantity: 90, UnitType: "pot", Position: 1},
				{Label: "Pot 25 L", Price: decimal.RequireFromString("86.000"), StockQuantity: 30, UnitType: "pot", Position: 2},
			},
		},
	}

	for i := range products {
		if err := gdb.Create(&products[i]).Error; err != nil {
			return err
		}
	}

	fmt.Printf("Seeded %d categories and %d products\n", 6, len(products))
	return nil
}

func importFromXLSX(gdb *gorm.DB, filePath string) {
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(gdb, filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	if err := gdb.CreateInBatches(products, 500).Error; err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

func readProductsFromXLSX(gdb *gorm.DB, filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows in XLSX file")
	}

	categories := make(map[string]uint)

	var products []model.Product
	for i, row := range rows[1:] {
		if len(row) < 6 {
			fmt.Printf("Skipping row %d: expected at least 6 columns, got %d\n", i+2, len(row))
			continue
		}

		categoryID, err := resolveCategory(gdb, categories, strings.TrimSpace(row[0]), strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		price, err := decimal.NewFromString(strings.TrimSpace(row[4]))
		if err != nil {
			fmt.Printf("Skipping row %d: invalid price %q\n", i+2, row[4])
			continue
		}

		stock, err := strconv.Atoi(strings.TrimSpace(row[5]))
		if err != nil {
			fmt.Printf("Skipping row %d: invalid stock %q\n", i+2, row[5])
			continue
		}

		product := model.Product{
			Name:          strings.TrimSpace(row[2]),
			SKU:           strings.TrimSpace(row[3]),
			BasePrice:     price,
			StockQuantity: stock,
			CategoryID:    categoryID,
		}
		if len(row) > 6 {
			product.Unit = strings.TrimSpace(row[6])
		}
		if len(row) > 7 {
			product.Description = strings.TrimSpace(row[7])
		}

		products = append(products, product)
	}

	return products, nil
}

// resolveCategory finds or creates the category chain for a row. Keyed by
// "parent/sub" so repeated rows hit the cache, not the database.
func resolveCategory(gdb *gorm.DB, cache map[string]uint, parentName, subName string) (uint, error) {
	if parentName == "" {
		return 0, fmt.Errorf("missing category name")
	}

	key := parentName + "/" + subName
	if id, ok := cache[key]; ok {
		return id, nil
	}

	var parent model.Category
	err := gdb.Where("name = ? AND parent_id IS NULL", parentName).First(&parent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		parent = model.Category{Name: parentName}
		err = gdb.Create(&parent).Error
	}
	if err != nil {
		return 0, err
	}

	if subName == "" {
		cache[key] = parent.ID
		return parent.ID, nil
	}

	var sub model.Category
	err = gdb.Where("name = ? AND parent_id = ?", subName, parent.ID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sub = model.Category{Name: subName, ParentID: &parent.ID}
		err = gdb.Create(&sub).Error
	}
	if err != nil {
		return 0, err
	}

	cache[key] = sub.ID
	return sub.ID, nil
}
