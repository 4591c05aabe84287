package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/emilythestrangee/blogicum/backend/internal/auth"
	"github.com/emilythestrangee/blogicum/backend/internal/blog"
	"github.com/emilythestrangee/blogicum/backend/internal/clock"
	"github.com/emilythestrangee/blogicum/backend/internal/database"
)

type createUserArgs struct {
	username string
	email    string
	password string
	staff    bool
}

func parseCreateUser(args []string, out io.Writer) (*createUserArgs, error) {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	fs.SetOutput(out)
	staff := fs.Bool("staff", false, "grant access to the admin panel")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	rest := fs.Args()
	// allow the flag after the positional arguments too
	if len(rest) == 4 && (rest[3] == "-staff" || rest[3] == "--staff") {
		*staff = true
		rest = rest[:3]
	}
	if len(rest) != 3 {
		return nil, errors.New("usage: create-user [-staff] <username> <email> <password>")
	}
	return &createUserArgs{username: rest[0], email: rest[1], password: rest[2], staff: *staff}, nil
}

func RunCreateUser(args []string) int {
	parsed, err := parseCreateUser(args, os.Stderr)
	if err != nil {
		fmt.Println(err)
		return 1
	}

	cfg, db, err := initDB()
	if err != nil {
		fmt.Printf("failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.Migrate(ctx, db.GetDB()); err != nil {
		fmt.Printf("failed to run migrations: %v\n", err)
		return 1
	}

	svc := auth.NewService(db.GetDB(), auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL, clock.NewRealClock()))
	user, err := svc.CreateUser(ctx, parsed.username, parsed.email, parsed.password, parsed.staff)
	if errors.Is(err, blog.ErrDuplicate) {
		fmt.Printf("user %s already exists\n", parsed.username)
		return 1
	}
	if err != nil {
		fmt.Printf("failed to create user: %v\n", err)
		return 1
	}

	role := "user"
	if user.IsStaff {
		role = "staff user"
	}
	fmt.Printf("%s %s created successfully\n", role, user.Username)
	return 0
}
