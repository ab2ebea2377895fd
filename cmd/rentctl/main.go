// rentctl is the operations CLI: migrations, seeding and per-owner backups
// without going through the web server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gorm.io/gorm"

	"github.com/kwo0two/rentmanagerpro/internal/backup"
	"github.com/kwo0two/rentmanagerpro/internal/config"
	"github.com/kwo0two/rentmanagerpro/internal/db"
	"github.com/kwo0two/rentmanagerpro/internal/models"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "rentctl",
		Short: "Rent manager operations tool",
	}

	rootCmd.AddCommand(
		migrateCmd(),
		seedCmd(),
		backupCmd(),
		restoreCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func getDB() (*gorm.DB, error) {
	cfg := config.Load()
	return db.Connect(cfg.Database)
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			sql, _ := cmd.Flags().GetBool("sql")
			cfg := config.Load()
			if sql {
				if err := db.RunSQLMigrations(cfg.Database); err != nil {
					return err
				}
				fmt.Println("SQL migrations applied")
				return nil
			}
			conn, err := db.Connect(cfg.Database)
			if err != nil {
				return err
			}
			if err := db.Migrate(conn); err != nil {
				return err
			}
			fmt.Println("Schema migrated")
			return nil
		},
	}
	cmd.Flags().Bool("sql", false, "Use versioned SQL migrations instead of AutoMigrate (postgres only)")
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := getDB()
			if err != nil {
				return err
			}
			if err := db.Seed(conn); err != nil {
				return err
			}
			fmt.Println("Seed data created")
			return nil
		},
	}
}

// findUser resolves the --user flag, which takes an email address.
func findUser(conn *gorm.DB, email string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("--user is required")
	}
	var user models.User
	if err := conn.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("user %q not found", email)
	}
	return &user, nil
}

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export an owner's data to a JSON archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("user")
			out, _ := cmd.Flags().GetString("out")

			conn, err := getDB()
			if err != nil {
				return err
			}
			user, err := findUser(conn, email)
			if err != nil {
				return err
			}

			w := os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := backup.Export(conn, user.ID, w); err != nil {
				return err
			}
			if out != "" {
				fmt.Fprintf(os.Stderr, "Backup written to %s\n", out)
			}
			return nil
		},
	}
	cmd.Flags().String("user", "", "Owner email address")
	cmd.Flags().String("out", "", "Output file (default stdout)")
	return cmd
}

func restoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <archive.json>",
		Short: "Restore a JSON archive into an owner's account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("user")

			conn, err := getDB()
			if err != nil {
				return err
			}
			user, err := findUser(conn, email)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			archive, err := backup.Restore(conn, user.ID, f)
			if err != nil {
				return err
			}
			fmt.Printf("Restored archive %s: %d buildings, %d leases, %d payments\n",
				archive.ID, len(archive.Buildings), len(archive.Leases), len(archive.Payments))
			return nil
		},
	}
	cmd.Flags().String("user", "", "Owner email address")
	return cmd
}
