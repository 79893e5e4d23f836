package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a demo user and default categories for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"gastos", "projetos", "categorias", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash demo password: %v", err)
		}

		demoEmail := "demo@recibox.app"
		demoName := "Demo"
		var exists int
		row := db.Raw("SELECT 1 FROM users WHERE email = ?", demoEmail).Row()
		if err := row.Scan(&exists); err == nil {
			fmt.Println("demo user already exists:", demoEmail)
		} else {
			if err := db.Exec("INSERT INTO users (email, name, password_hash, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())", demoEmail, demoName, string(hash)).Error; err != nil {
				log.Fatalf("failed to insert demo user: %v", err)
			}
			fmt.Println("Seeded demo user:", demoEmail)
		}

		var demoUserID int64
		if err := db.Raw("SELECT id FROM users WHERE email = ?", demoEmail).Row().Scan(&demoUserID); err != nil {
			log.Fatalf("failed to lookup demo user id: %v", err)
		}

		categories := []struct {
			Name  string
			Color string
			Icon  string
		}{
			{"material", "#2196F3", "construct"},
			{"mao_de_obra", "#4CAF50", "people"},
			{"transporte", "#FF9800", "car"},
			{"alimentacao", "#E91E63", "restaurant"},
			{"ferramentas", "#9C27B0", "hammer"},
			{"outros", "#607D8B", "ellipsis-horizontal"},
		}

		for _, c := range categories {
			var exists int
			row := db.Raw("SELECT 1 FROM categorias WHERE user_id = ? AND nome = ?", demoUserID, c.Name).Row()
			if err := row.Scan(&exists); err != nil {
				if err := db.Exec("INSERT INTO categorias (user_id, nome, cor, icone, ativo, created_at) VALUES (?, ?, ?, ?, true, now())", demoUserID, c.Name, c.Color, c.Icon).Error; err != nil {
					log.Fatalf("failed to insert category %s: %v", c.Name, err)
				}
				fmt.Printf("Seeded category: %s\n", c.Name)
			}
		}

		fmt.Println("Categories seeded successfully")
	},
}
