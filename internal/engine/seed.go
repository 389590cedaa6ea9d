package engine

import (
	"context"
	"encoding/json"
	"fmt"
)

type seedCategory struct {
	ID          string
	Name        string
	Slug        string
	Description string
	Image       string
}

type seedProduct struct {
	ID            string
	Name          string
	Description   string
	Price         float64
	Image         string
	CategoryID    string
	Material      string
	Colors        []string
	Rating        float64
	ReviewCount   int
	IsNew         bool
	IsBestSeller  bool
	StockQuantity int
}

var seedCategories = []seedCategory{
	{ID: "1", Name: "Keychains", Slug: "keychains", Description: "Stylish keychains to accessorize your keys", Image: "https://images.pexels.com/photos/6249362/pexels-photo-6249362.jpeg?auto=compress&cs=tinysrgb&w=600"},
	{ID: "2", Name: "Wrist Keychains", Slug: "wrist-keychains", Description: "Convenient wrist keychains for hands-free carrying", Image: "https://images.pexels.com/photos/5442464/pexels-photo-5442464.jpeg?auto=compress&cs=tinysrgb&w=600"},
	{ID: "3", Name: "Hair Accessories", Slug: "hair-accessories", Description: "Beautiful hair accessories for every style", Image: "https://images.pexels.com/photos/6663331/pexels-photo-6663331.jpeg?auto=compress&cs=tinysrgb&w=600"},
	{ID: "4", Name: "Handbags", Slug: "handbags", Description: "Elegant handcrafted handbags for the modern woman", Image: "/images/handbags-category.jpg"},
}

var seedProducts = []seedProduct{
	{
		ID: "1", Name: "Classic Leather Keychain",
		Description: "Premium leather keychain crafted with attention to detail",
		Price:       299, Image: "https://images.pexels.com/photos/6249362/pexels-photo-6249362.jpeg?auto=compress&cs=tinysrgb&w=600",
		CategoryID: "1", Material: "Genuine Leather",
		Colors: []string{"Brown", "Black", "Tan"},
		Rating: 4.8, ReviewCount: 124, IsNew: true, StockQuantity: 15,
	},
	{
		ID: "2", Name: "Metallic Chain Keychain",
		Description: "Stylish metallic keychain with chain details",
		Price:       199, Image: "https://images.pexels.com/photos/7319337/pexels-photo-7319337.jpeg?auto=compress&cs=tinysrgb&w=600",
		CategoryID: "1", Material: "Metal Alloy",
		Colors: []string{"Silver", "Gold", "Rose Gold"},
		Rating: 4.5, ReviewCount: 89, StockQuantity: 25,
	},
	{
		ID: "3", Name: "Beaded Wrist Keychain",
		Description: "Comfortable beaded wrist keychain with elastic band",
		Price:       349, Image: "https://images.pexels.com/photos/5442464/pexels-photo-5442464.jpeg?auto=compress&cs=tinysrgb&w=600",
		CategoryID: "2", Material: "Beads & Elastic",
		Colors: []string{"Multi", "Blue", "Pink"},
		Rating: 4.7, ReviewCount: 156, IsBestSeller: true, StockQuantity: 18,
	},
	{
		ID: "4", Name: "Pearl Hair Clips Set",
		Description: "Elegant pearl hair clips set for special occasions",
		Price:       449, Image: "https://images.pexels.com/photos/6663331/pexels-photo-6663331.jpeg?auto=compress&cs=tinysrgb&w=600",
		CategoryID: "3", Material: "Pearl & Metal",
		Colors: []string{"White", "Cream", "Silver"},
		Rating: 4.9, ReviewCount: 203, IsNew: true, StockQuantity: 22,
	},
	{
		ID: "5", Name: "Silk Hair Scrunchies",
		Description: "Luxurious silk scrunchies gentle on your hair",
		Price:       249, Image: "https://images.pexels.com/photos/6663331/pexels-photo-6663331.jpeg?auto=compress&cs=tinysrgb&w=600",
		CategoryID: "3", Material: "Pure Silk",
		Colors: []string{"Pink", "Lavender", "Beige"},
		Rating: 4.6, ReviewCount: 178, StockQuantity: 30,
	},
	{
		ID: "6", Name: "Handwoven Macrame Crossbody Bag - Red",
		Description: "Beautiful handwoven macrame crossbody bag with intricate knotwork pattern. Features the signature label and comes with a comfortable wrist strap.",
		Price:       1299, Image: "/images/macrame-crossbody-red.jpg",
		CategoryID: "4", Material: "Handwoven Macrame Cord",
		Colors: []string{"Red", "Pink", "Burgundy"},
		Rating: 4.8, ReviewCount: 334, IsBestSeller: true, StockQuantity: 8,
	},
	{
		ID: "7", Name: "Macrame Mini Handbag - Cream & Brown",
		Description: "Elegant mini handbag with beautiful macrame pattern in cream and brown. Perfect for casual outings with leather handle for comfort.",
		Price:       899, Image: "/images/macrame-mini-cream.jpg",
		CategoryID: "4", Material: "Macrame Cord & Leather Handle",
		Colors: []string{"Cream", "Brown", "Beige"},
		Rating: 4.4, ReviewCount: 267, StockQuantity: 12,
	},
	{
		ID: "8", Name: "Artisan Macrame Tote - White",
		Description: "Spacious macrame tote bag with wooden handles. Features intricate handwoven patterns perfect for everyday use or special occasions.",
		Price:       1199, Image: "/images/macrame-tote-white.jpg",
		CategoryID: "4", Material: "Macrame Cord & Wood Handles",
		Colors: []string{"White", "Cream", "Natural"},
		Rating: 4.7, ReviewCount: 145, IsNew: true, StockQuantity: 6,
	},
	{
		ID: "9", Name: "Boho Macrame Shoulder Bag - Blue",
		Description: "Stylish boho-inspired macrame shoulder bag in beautiful blue. Features leather straps and signature craftsmanship.",
		Price:       1099, Image: "/images/macrame-shoulder-blue.jpg",
		CategoryID: "4", Material: "Macrame Cord & Leather Straps",
		Colors: []string{"Blue", "Navy", "Teal"},
		Rating: 4.6, ReviewCount: 189, IsNew: true, StockQuantity: 10,
	},
}

// seed loads reference categories and, when enabled, the demo catalog with
// its inventory records. Runs inside bootstrap, before the initial persist.
func (e *Engine) seed() error {
	ctx := context.Background()

	for _, cat := range seedCategories {
		_, err := e.conn.ExecContext(ctx,
			`INSERT INTO categories (id, name, slug, description, image) VALUES (?, ?, ?, ?, ?)`,
			cat.ID, cat.Name, cat.Slug, cat.Description, cat.Image,
		)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", cat.Slug, err)
		}
	}

	if !e.opts.SeedDemo {
		return nil
	}

	for _, p := range seedProducts {
		colors, err := json.Marshal(p.Colors)
		if err != nil {
			return err
		}
		_, err = e.conn.ExecContext(ctx,
			`INSERT INTO products (id, name, description, price, image, category_id, material, colors, rating, review_count, is_new, is_best_seller, stock_quantity)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Description, p.Price, p.Image, p.CategoryID, p.Material,
			string(colors), p.Rating, p.ReviewCount, boolToInt(p.IsNew), boolToInt(p.IsBestSeller), p.StockQuantity,
		)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.ID, err)
		}

		_, err = e.conn.ExecContext(ctx,
			`INSERT INTO inventory (id, product_id, quantity, reserved_quantity) VALUES (?, ?, ?, 0)`,
			"inv_"+p.ID, p.ID, p.StockQuantity,
		)
		if err != nil {
			return fmt.Errorf("seed inventory for product %s: %w", p.ID, err)
		}
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
