package main

import (
	"fmt"
	"os"

	"github.com/emilythestrangee/blogicum/backend/internal/cmd"
)

func main() {
	if len(os.Args) < 2 {
		os.Exit(cmd.RunServer())
	}

	switch os.Args[1] {
	case "server":
		os.Exit(cmd.RunServer())
	case "migrate":
		os.Exit(cmd.RunMigrate())
	case "create-user":
		os.Exit(cmd.RunCreateUser(os.Args[2:]))
	case "help":
		showHelp()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		showHelp()
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println("Blogicum API")
	fmt.Println("Usage: ./api [command] [args]")
	fmt.Println("\nAvailable commands:")
	fmt.Println("  server       Run migrations and start the HTTP server (default)")
	fmt.Println("  migrate      Run database migrations")
	fmt.Println("  create-user  Create an account (args: [-staff] <username> <email> <password>)")
	fmt.Println("  help         Show this help message")
}
