// Command seed populates the database with sample users, listings,
// messages and view events for local development.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/22mk294/Tempo-Home/internal/auth"
	"github.com/22mk294/Tempo-Home/internal/config"
	"github.com/22mk294/Tempo-Home/internal/database"
	"github.com/22mk294/Tempo-Home/internal/models"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	configPath := getEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config from %s: %v", configPath, err)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	if err := seed(store); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding completed")
	log.Println(`Sample users created (password: "password" for all):`)
	log.Println("- marie@example.com (owner)")
	log.Println("- pierre@example.com (owner)")
	log.Println("- sophie@example.com (tenant)")
	log.Println("- admin@tempo-home.com (admin)")
}

func seed(store database.Store) error {
	hash, err := auth.HashPassword("password")
	if err != nil {
		return err
	}

	users := []models.User{
		{Name: "Marie Dupont", Email: "marie@example.com", Password: hash, Phone: "06 12 34 56 78", Type: models.UserTypeOwner},
		{Name: "Pierre Martin", Email: "pierre@example.com", Password: hash, Phone: "06 98 76 54 32", Type: models.UserTypeOwner},
		{Name: "Sophie Bernard", Email: "sophie@example.com", Password: hash, Phone: "06 11 22 33 44", Type: models.UserTypeTenant},
		{Name: "Admin System", Email: "admin@tempo-home.com", Phone: "06 00 00 00 00", Password: hash, Type: models.UserTypeAdmin},
	}
	for i := range users {
		if err := store.CreateUser(&users[i]); err != nil {
			return fmt.Errorf("create user %s: %w", users[i].Email, err)
		}
	}

	marie, pierre := users[0].ID, users[1].ID

	maisons := []models.Maison{
		{
			Title:       "Appartement moderne 3 pièces",
			Description: "Magnifique appartement de 3 pièces entièrement rénové avec terrasse et parking. Proche des transports et commerces.",
			Price:       1320, Location: "Paris 15ème", NbRooms: 3, Surface: 75.5,
			Images:  []string{"https://images.pexels.com/photos/1396122/pexels-photo-1396122.jpeg?auto=compress&cs=tinysrgb&w=800"},
			OwnerID: marie, Available: true, Views: 45,
		},
		{
			Title:       "Maison avec jardin",
			Description: "Belle maison familiale avec grand jardin, garage et 4 chambres. Quartier calme et résidentiel.",
			Price:       1980, Location: "Lyon 6ème", NbRooms: 5, Surface: 120,
			Images:  []string{"https://images.pexels.com/photos/106399/pexels-photo-106399.jpeg?auto=compress&cs=tinysrgb&w=800"},
			OwnerID: pierre, Available: true, Views: 32,
		},
		{
			Title:       "Studio centre-ville",
			Description: "Studio moderne en plein centre-ville, parfait pour étudiant ou jeune actif. Tout équipé.",
			Price:       715, Location: "Marseille 1er", NbRooms: 1, Surface: 25,
			Images:  []string{"https://images.pexels.com/photos/271624/pexels-photo-271624.jpeg?auto=compress&cs=tinysrgb&w=800"},
			OwnerID: marie, Available: true, Views: 18,
		},
		{
			Title:       "Duplex avec vue",
			Description: "Superbe duplex avec vue panoramique, 2 terrasses et parking privé. Très lumineux.",
			Price:       1650, Location: "Nice Centre", NbRooms: 4, Surface: 90,
			Images:  []string{"https://images.pexels.com/photos/1571460/pexels-photo-1571460.jpeg?auto=compress&cs=tinysrgb&w=800"},
			OwnerID: pierre, Available: true, Views: 67,
		},
		{
			Title:       "Loft industriel",
			Description: "Ancien loft industriel rénové avec goût. Hauteur sous plafond exceptionnelle et cachet unique.",
			Price:       2420, Location: "Bordeaux Chartrons", NbRooms: 3, Surface: 110,
			Images:  []string{"https://images.pexels.com/photos/1571467/pexels-photo-1571467.jpeg?auto=compress&cs=tinysrgb&w=800"},
			OwnerID: marie, Available: true, Views: 29,
		},
		{
			Title:       "Pavillon familial",
			Description: "Pavillon de 6 pièces avec grand jardin et garage. Idéal famille nombreuse. Calme absolu.",
			Price:       1760, Location: "Toulouse Colomiers", NbRooms: 6, Surface: 140,
			Images:  []string{"https://images.pexels.com/photos/1643383/pexels-photo-1643383.jpeg?auto=compress&cs=tinysrgb&w=800"},
			OwnerID: pierre, Available: true, Views: 41,
		},
	}
	for i := range maisons {
		if err := store.CreateMaison(&maisons[i]); err != nil {
			return fmt.Errorf("create maison %q: %w", maisons[i].Title, err)
		}
	}

	messages := []models.Message{
		{MaisonID: maisons[0].ID, Name: "Jean Dubois", Email: "jean@example.com", Phone: "06 55 44 33 22", Body: "Bonjour, je suis très intéressé par votre appartement. Serait-il possible de le visiter cette semaine ?"},
		{MaisonID: maisons[1].ID, Name: "Alice Moreau", Email: "alice@example.com", Phone: "06 77 88 99 00", Body: "Votre maison correspond exactement à ce que je recherche. Puis-je avoir plus d'informations sur le quartier ?"},
		{MaisonID: maisons[0].ID, Name: "Thomas Leroy", Email: "thomas@example.com", Phone: "06 33 44 55 66", Body: "L'appartement est-il toujours disponible ? Je peux me déplacer rapidement pour une visite."},
		{MaisonID: maisons[2].ID, Name: "Emma Martin", Email: "emma@example.com", Phone: "06 22 33 44 55", Body: "Je recherche un studio pour mes études. Celui-ci semble parfait !"},
		{MaisonID: maisons[3].ID, Name: "Lucas Bernard", Email: "lucas@example.com", Phone: "06 44 55 66 77", Body: "Magnifique duplex ! Quand puis-je le visiter ?"},
		{MaisonID: maisons[4].ID, Name: "Claire Petit", Email: "claire@example.com", Phone: "06 66 77 88 99", Body: "Le loft me plaît beaucoup. Y a-t-il une place de parking ?"},
	}
	for i := range messages {
		if err := store.CreateMessage(&messages[i]); err != nil {
			return fmt.Errorf("create message from %s: %w", messages[i].Email, err)
		}
	}

	views := []models.PropertyView{
		{MaisonID: maisons[0].ID, ViewerIP: "192.168.1.1", UserAgent: "Mozilla/5.0"},
		{MaisonID: maisons[0].ID, ViewerIP: "192.168.1.2", UserAgent: "Mozilla/5.0"},
		{MaisonID: maisons[1].ID, ViewerIP: "192.168.1.3", UserAgent: "Mozilla/5.0"},
		{MaisonID: maisons[2].ID, ViewerIP: "192.168.1.4", UserAgent: "Mozilla/5.0"},
		{MaisonID: maisons[3].ID, ViewerIP: "192.168.1.5", UserAgent: "Mozilla/5.0"},
		{MaisonID: maisons[3].ID, ViewerIP: "192.168.1.6", UserAgent: "Mozilla/5.0"},
		{MaisonID: maisons[4].ID, ViewerIP: "192.168.1.7", UserAgent: "Mozilla/5.0"},
	}
	for i := range views {
		if err := store.RecordView(&views[i]); err != nil {
			return fmt.Errorf("record view: %w", err)
		}
	}

	return nil
}

func openStore(cfg *config.Config) (database.Store, error) {
	switch cfg.Database.Type {
	case "postgres":
		pg := cfg.Database.Postgres
		return database.NewPostgresDB(pg.Host, fmt.Sprintf("%d", pg.Port), pg.User, pg.Password, pg.Database, pg.SSLMode)
	default:
		my := cfg.Database.MySQL
		return database.NewGormDB(my.Host, fmt.Sprintf("%d", my.Port), my.User, my.Password, my.Database)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
