package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/devstack-id/fullstack-api/config"
	"github.com/devstack-id/fullstack-api/pkg/helpers"
)

// Seeds the first superuser from FIRST_SUPERUSER_EMAIL / FIRST_SUPERUSER_PASSWORD.
// Safe to run repeatedly; a re-run with a changed password rotates the credential.
const upsertSuperuserSQL = `
	INSERT INTO users (email, hashed_password, full_name, is_active, is_superuser)
	VALUES ($1, $2, $3, true, true)
	ON CONFLICT (email) DO UPDATE
	SET hashed_password = EXCLUDED.hashed_password, is_superuser = true, is_active = true
	RETURNING id`

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	hash, err := helpers.HashPassword(cfg.FirstSuperuserPassword)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(upsertSuperuserSQL, cfg.FirstSuperuserEmail, hash, "Admin").Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed superuser: %v", err)
	}
	fmt.Printf("seeded superuser: id=%s email=%s\n", id, cfg.FirstSuperuserEmail)
}
