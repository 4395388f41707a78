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

type seedUser struct {
	Email string
	Name  string
	Role  string
}

type seedItem struct {
	ID       string
	Parent   string
	Label    string
	Icon     string
	Path     string
	Type     string
	Position int
	Roles    []string
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users, the navigation tree and demo content.`,
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
			log.Fatalf("failed to open gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"contents", "navigation_item_roles", "navigation_items", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		users := []seedUser{
			{"admin@tourism.test", "Ayu Admin", "admin"},
			{"editor@tourism.test", "Eko Editor", "editor"},
			{"viewer@tourism.test", "Vina Viewer", "viewer"},
		}

		for _, u := range users {
			var exists int
			if err := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row().Scan(&exists); err == nil {
				fmt.Printf("user %s already exists, skipping\n", u.Email)
				continue
			}
			err := db.Exec(
				"INSERT INTO users (email, name, password_hash, role, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())",
				u.Email, u.Name, string(hash), u.Role,
			).Error
			if err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Printf("Seeded %s user: %s\n", u.Role, u.Email)
		}

		all := []string{"admin", "editor", "viewer"}
		public := []string{"admin", "editor", "viewer", "anonymous"}

		items := []seedItem{
			{ID: "dashboard", Label: "Dashboard", Icon: "gauge", Path: "/dashboard", Type: "single", Position: 0, Roles: all},

			{ID: "attractions", Label: "Attractions", Icon: "landmark", Type: "dropdown", Position: 1, Roles: public},
			{ID: "attractions-list", Parent: "attractions", Label: "All Attractions", Icon: "list", Path: "/attractions", Type: "single", Position: 0, Roles: public},
			{ID: "attractions-reviews", Parent: "attractions", Label: "Reviews", Icon: "star", Path: "/attractions/reviews", Type: "single", Position: 1, Roles: all},

			{ID: "events", Label: "Events", Icon: "calendar", Type: "dropdown", Position: 2, Roles: public},
			{ID: "events-calendar", Parent: "events", Label: "Calendar", Icon: "calendar-days", Path: "/events", Type: "single", Position: 0, Roles: public},
			{ID: "events-submissions", Parent: "events", Label: "Submissions", Icon: "inbox", Path: "/events/submissions", Type: "single", Position: 1, Roles: []string{"admin", "editor"}},

			{ID: "accommodations", Label: "Accommodations", Icon: "bed", Path: "/accommodations", Type: "single", Position: 3, Roles: public},

			{ID: "reports", Label: "Reports", Icon: "chart-line", Type: "dropdown", Position: 4, Roles: []string{"admin", "editor"}},
			{ID: "reports-visitors", Parent: "reports", Label: "Visitor Stats", Icon: "users", Path: "/reports/visitors", Type: "single", Position: 0, Roles: []string{"admin", "editor"}},
			{ID: "reports-revenue", Parent: "reports", Label: "Revenue", Icon: "coins", Path: "/reports/revenue", Type: "single", Position: 1, Roles: []string{"admin"}},

			{ID: "settings", Label: "Settings", Icon: "cog", Type: "dropdown", Position: 5, Roles: []string{"admin"}},
			{ID: "settings-users", Parent: "settings", Label: "User Management", Icon: "user-cog", Path: "/settings/users", Type: "single", Position: 0, Roles: []string{"admin"}},
			{ID: "settings-navigation", Parent: "settings", Label: "Navigation", Icon: "sitemap", Path: "/settings/navigation", Type: "single", Position: 1, Roles: []string{"admin"}},
		}

		for _, it := range items {
			var exists int
			if err := db.Raw("SELECT 1 FROM navigation_items WHERE item_id = ?", it.ID).Row().Scan(&exists); err == nil {
				continue
			}

			var parent, path interface{}
			if it.Parent != "" {
				parent = it.Parent
			}
			if it.Path != "" {
				path = it.Path
			}

			err := db.Exec(
				"INSERT INTO navigation_items (item_id, parent_item_id, label, icon, path, item_type, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, now(), now())",
				it.ID, parent, it.Label, it.Icon, path, it.Type, it.Position,
			).Error
			if err != nil {
				log.Fatalf("failed to insert navigation item %s: %v", it.ID, err)
			}

			for _, role := range it.Roles {
				err := db.Exec(
					"INSERT INTO navigation_item_roles (item_id, role, created_at) VALUES (?, ?, now())",
					it.ID, role,
				).Error
				if err != nil {
					log.Fatalf("failed to grant role %s on %s: %v", role, it.ID, err)
				}
			}
			fmt.Printf("Seeded navigation item: %s\n", it.ID)
		}

		var editorID int64
		if err := db.Raw("SELECT id FROM users WHERE email = ?", "editor@tourism.test").Row().Scan(&editorID); err != nil {
			log.Fatalf("failed to lookup editor user id: %v", err)
		}

		contents := []struct {
			Title   string
			Slug    string
			Section string
			Status  string
		}{
			{"Borobudur Temple", "borobudur-temple", "attractions-list", "published"},
			{"Night Market Festival", "night-market-festival", "events-calendar", "pending"},
			{"New Beach Resort", "new-beach-resort", "accommodations", "pending"},
			{"Hidden Waterfall Trail", "hidden-waterfall-trail", "attractions-list", "draft"},
		}

		for _, c := range contents {
			var exists int
			if err := db.Raw("SELECT 1 FROM contents WHERE slug = ?", c.Slug).Row().Scan(&exists); err == nil {
				continue
			}
			err := db.Exec(
				"INSERT INTO contents (title, slug, summary, body, section_id, status, author_id, created_at, updated_at) VALUES (?, ?, '', '', ?, ?, ?, now(), now())",
				c.Title, c.Slug, c.Section, c.Status, editorID,
			).Error
			if err != nil {
				log.Fatalf("failed to insert content %s: %v", c.Slug, err)
			}
			fmt.Printf("Seeded content: %s (%s)\n", c.Slug, c.Status)
		}

		fmt.Println("Seeding complete")
	},
}
