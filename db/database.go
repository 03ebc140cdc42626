package db

import (
	"database/sql"
	"fmt"
	"log"

	"BeatWave/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB initializes the database schema, creating tables if they don't exist.
func InitDB() error {
	if err := createUsersTable(); err != nil {
		return err
	}
	if err := createBeatsTable(); err != nil {
		return err
	}
	log.Println("Database initialization completed.")
	return nil
}

func createUsersTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		balance BIGINT UNSIGNED NOT NULL DEFAULT 0,
		phone VARCHAR(20),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	);
	`
	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	log.Println("Users table initialized successfully (or already exists).")
	return nil
}

func createBeatsTable() error {
	// AUTO_INCREMENT from 1 carries the sequential-id contract; records
	// are never deleted so ids are never reused.
	query := `
	CREATE TABLE IF NOT EXISTS beats (
		id INT AUTO_INCREMENT PRIMARY KEY,
		owner_id INT NOT NULL,
		content_ref VARCHAR(512) NOT NULL,
		title VARCHAR(255) NOT NULL,
		price BIGINT UNSIGNED NOT NULL DEFAULT 0,
		is_for_sale BOOLEAN NOT NULL DEFAULT FALSE,
		number_of_likes BIGINT UNSIGNED NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_beat_owner FOREIGN KEY (owner_id) REFERENCES users(id)
	) AUTO_INCREMENT = 1;
	`
	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create beats table: %w", err)
	}
	log.Println("Beats table initialized successfully (or already exists).")
	return nil
}
