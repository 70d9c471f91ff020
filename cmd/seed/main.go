package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/ortholink/ortholink-api/config"
	"github.com/ortholink/ortholink-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@ortholink.dev"
	password := "password123"
	name := "OrthoLink Admin"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name, role, avatar_url)
		VALUES ($1, $2, $3, 'admin', '')
		ON CONFLICT (email) DO UPDATE SET role = 'admin'
		RETURNING id
	`, email, hash, name).Scan(&adminID)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", adminID, email, password)

	var courseID string
	err = db.QueryRow(`
		INSERT INTO courses (title, slug, summary, body, category, cover_url, price,
			max_enrollments, status, owner_id, published_at)
		VALUES ('Getting Started with Clear Aligners', 'getting-started-with-clear-aligners',
			'An introductory course covering case selection and treatment planning.',
			'Module one walks through patient records, attachment protocols and refinements.',
			'orthodontics', '', 0, NULL, 'published', $1, now())
		ON CONFLICT (slug) DO UPDATE SET updated_at = now()
		RETURNING id
	`, adminID).Scan(&courseID)
	if err != nil {
		log.Fatalf("failed to seed demo course: %v", err)
	}
	fmt.Printf("seeded demo course: id=%s\n", courseID)
}
