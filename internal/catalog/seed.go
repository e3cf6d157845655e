package catalog

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pillpal/pillpal/internal/models"
)

var seedCategories = []models.Category{
	{ID: "pain-relief", Name: "Pain Relief", ImageURL: "https://placehold.co/300x200.png", AIHint: "pills painkiller", Description: "Relieve various types of pain effectively."},
	{ID: "cold-flu", Name: "Cold & Flu", ImageURL: "https://placehold.co/300x200.png", AIHint: "tissue sickness", Description: "Combat cold and flu symptoms quickly."},
	{ID: "vitamins-supplements", Name: "Vitamins & Supplements", ImageURL: "https://placehold.co/300x200.png", AIHint: "vitamins bottle", Description: "Boost your health with essential nutrients."},
	{ID: "digestive-health", Name: "Digestive Health", ImageURL: "https://placehold.co/300x200.png", AIHint: "stomach health", Description: "Support your digestive system."},
	{ID: "skincare", Name: "Skincare", ImageURL: "https://placehold.co/300x200.png", AIHint: "cream lotion", Description: "Nourish and protect your skin."},
	{ID: "first-aid", Name: "First Aid", ImageURL: "https://placehold.co/300x200.png", AIHint: "bandages kit", Description: "Essential supplies for minor injuries."},
}

var seedMedicines = []models.Medicine{
	{ID: "1", Name: "Paracetamol 500mg", Category: "Pain Relief", Price: 5.99, Description: "Effective relief from pain and fever. Suitable for headaches, migraines, and body aches.", ImageURL: "https://placehold.co/400x300.png", Stock: 100, AIHint: "tablet painkiller"},
	{ID: "2", Name: "Ibuprofen 200mg", Category: "Pain Relief", Price: 7.49, Description: "Reduces inflammation and pain. Helps with arthritis, menstrual cramps, and muscle soreness.", ImageURL: "https://placehold.co/400x300.png", Stock: 75, AIHint: "capsule medicine"},
	{ID: "3", Name: "Vitamin C 1000mg", Category: "Vitamins & Supplements", Price: 12.99, Description: "Boosts immune system and provides antioxidant support. Effervescent tablets for easy consumption.", ImageURL: "https://placehold.co/400x300.png", Stock: 120, AIHint: "orange vitamin"},
	{ID: "4", Name: "Antacid Tablets", Category: "Digestive Health", Price: 8.99, Description: "Quick relief from heartburn, acid indigestion, and upset stomach. Chewable mint flavor.", ImageURL: "https://placehold.co/400x300.png", Stock: 90, AIHint: "antacid stomach"},
	{ID: "5", Name: "Cold & Flu Syrup", Category: "Cold & Flu", Price: 9.99, Description: "Soothes cough, relieves nasal congestion, and reduces fever. Non-drowsy formula.", ImageURL: "https://placehold.co/400x300.png", Stock: 60, AIHint: "syrup bottle"},
	{ID: "6", Name: "Moisturizing Cream", Category: "Skincare", Price: 15.00, Description: "Hydrates and protects dry and sensitive skin. Fragrance-free and dermatologically tested.", ImageURL: "https://placehold.co/400x300.png", Stock: 50, AIHint: "skin cream"},
	{ID: "7", Name: "Aspirin 300mg", Category: "Pain Relief", Price: 6.50, Description: "Relief from mild to moderate pain, fever, and inflammation. Enteric-coated tablets.", ImageURL: "https://placehold.co/400x300.png", Stock: 80, AIHint: "aspirin pills"},
	{ID: "8", Name: "Multivitamin Gummies", Category: "Vitamins & Supplements", Price: 18.99, Description: "Tasty and convenient way to get essential daily vitamins and minerals for adults.", ImageURL: "https://placehold.co/400x300.png", Stock: 110, AIHint: "gummy vitamins"},
	{ID: "9", Name: "Probiotic Capsules", Category: "Digestive Health", Price: 22.50, Description: "Supports a healthy gut microbiome and improves digestion. Contains 10 billion CFUs.", ImageURL: "https://placehold.co/400x300.png", Stock: 70, AIHint: "probiotic pill"},
	{ID: "10", Name: "Sunscreen SPF 50", Category: "Skincare", Price: 12.75, Description: "Broad-spectrum protection against UVA and UVB rays. Water-resistant formula.", ImageURL: "https://placehold.co/400x300.png", Stock: 85, AIHint: "sunscreen bottle"},
}

// Seed inserts the stock catalog, leaving already-present rows alone so
// admin edits survive restarts.
func Seed(db *gorm.DB) error {
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seedCategories).Error; err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seedMedicines).Error
}
