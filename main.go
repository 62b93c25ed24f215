package main

import (
	"fmt"
	"os"
	"strings"

	"quill/service"
)

// CliVersion is reported by the version command.
const CliVersion = "1.0.0"

// Mock os.Exit to prevent test termination
var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches the command line and exits with its status.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("quill version %s\n", CliVersion)
	case "serve", "migrate", "clean", "backup", "restore":
		if code := service.HandleCommand(os.Args[1:]); code != 0 {
			exit(code)
		}
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		exit(1)
	}
}

func printHelp() {
	helpText := `Usage: quill <command> [options]
Commands:
  help                 Display this help message.
  version              Show version information.
  serve [addr]         Run the blog service until interrupted.
  migrate              Create or update the database schema.
  clean                Clear the session store, logging everyone out.
  backup               Back up the session store to data/backups.
  restore <file>       Restore the session store from a backup.

Configuration is read from the environment: QUILL_SECRET_KEY (required), QUILL_ADDR,
DB_URI, QUILL_SESSION_DIR, QUILL_SESSION_TTL, QUILL_SECURE_COOKIES,
QUILL_SHUTDOWN_TIMEOUT and QUILL_DB_LOG.
`
	fmt.Println(helpText)
}
