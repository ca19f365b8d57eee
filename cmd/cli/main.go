package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/alextreichler/foodorder/internal/models"
	"github.com/alextreichler/foodorder/internal/store"
)

const usage = "expected 'add-user' or 'make-admin' subcommand"

func main() {
	addUserCmd := flag.NewFlagSet("add-user", flag.ExitOnError)
	username := addUserCmd.String("username", "", "Username for the new user")
	email := addUserCmd.String("email", "", "Email for the new user")
	password := addUserCmd.String("password", "", "Password for the new user")
	admin := addUserCmd.Bool("admin", false, "Give the new user admin rights")

	makeAdminCmd := flag.NewFlagSet("make-admin", flag.ExitOnError)
	promote := makeAdminCmd.String("username", "", "Username to promote")

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	// A missing .env is fine.
	_ = godotenv.Load()

	switch os.Args[1] {
	case "add-user":
		addUserCmd.Parse(os.Args[2:])
		if *username == "" || *email == "" || *password == "" {
			fmt.Println("username, email and password are required")
			addUserCmd.PrintDefaults()
			os.Exit(1)
		}
		createUser(*username, *email, *password, *admin)
	case "make-admin":
		makeAdminCmd.Parse(os.Args[2:])
		if *promote == "" {
			fmt.Println("username is required")
			makeAdminCmd.PrintDefaults()
			os.Exit(1)
		}
		makeAdmin(*promote)
	default:
		fmt.Println(usage)
		os.Exit(1)
	}
}

func openStore() *store.Store {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./food_ordering.db"
	}

	db, err := store.NewStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	// Ensure tables exist if running cli before server
	if err := db.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	return db
}

func createUser(username, email, password string, admin bool) {
	db := openStore()
	defer db.Close()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
		IsAdmin:  admin,
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("User '%s' created successfully (id %d).\n", username, user.ID)
}

func makeAdmin(username string) {
	db := openStore()
	defer db.Close()

	ctx := context.Background()
	user, err := db.GetUserByUsername(ctx, username)
	if err != nil {
		log.Fatalf("Failed to find user '%s': %v", username, err)
	}
	if err := db.SetAdmin(ctx, user.ID); err != nil {
		log.Fatalf("Failed to promote user: %v", err)
	}

	fmt.Printf("User '%s' is now an admin.\n", username)
}
