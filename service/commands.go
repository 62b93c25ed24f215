package service

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"quill/app/config"
	"quill/app/repositories"
	"quill/app/session"

	"github.com/dgraph-io/badger/v4"
)

var osExit = os.Exit

// backupDir is where session store backups are written.
var backupDir = "data/backups"

// HandleCommand handles server subcommands and returns an exit code.
func HandleCommand(args []string) int {
	if len(args) < 1 {
		printCommandHelp()
		osExit(1)
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "serve":
		return RunAppServer(args[1:])
	case "migrate":
		return migrate()
	case "clean":
		return clean()
	case "backup":
		return backup()
	case "restore":
		if len(args) < 2 {
			fmt.Println("Error: backup file path required for restore")
			osExit(1)
			return 1
		}
		return restore(args[1])
	case "help":
		printCommandHelp()
		return 0
	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		printCommandHelp()
		osExit(1)
		return 1
	}
}

// printCommandHelp prints help for server subcommands.
func printCommandHelp() {
	helpText := `Usage: quill <command>

Commands:
  serve [addr]                    Run the blog service (default address from QUILL_ADDR)
  migrate                         Create or update the database schema
  clean                           Log everyone out by clearing the session store
  backup                          Create a backup of the session store
  restore [file]                  Restore the session store from a backup
  help                            Display this help message
`
	fmt.Println(helpText)
}

func loadConfig() (*config.Config, bool) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		return nil, false
	}
	return cfg, true
}

// migrate creates or updates the relational schema.
func migrate() int {
	cfg, ok := loadConfig()
	if !ok {
		return 1
	}
	db, err := repositories.Open(cfg.DatabaseURI, cfg.DatabaseLog)
	if err != nil {
		fmt.Printf("Failed to migrate database: %v\n", err)
		return 1
	}
	defer repositories.Close(db)

	fmt.Println("Database migrated successfully")
	return 0
}

// sessionDir returns the on-disk session store, or "" with a message when
// there is nothing on disk to operate on.
func sessionDir(cfg *config.Config) string {
	dir := cfg.SessionStorePath()
	if dir == "" {
		fmt.Println("Session store is in memory; nothing to do")
		return ""
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		fmt.Println("Session store does not exist")
		return ""
	}
	return dir
}

// clean deletes every stored session.
func clean() int {
	cfg, ok := loadConfig()
	if !ok {
		return 1
	}
	dir := sessionDir(cfg)
	if dir == "" {
		return 0
	}

	fmt.Print("Are you sure you want to clear all sessions? Everyone will be logged out. [y/N] ")
	var response string
	fmt.Scanln(&response)
	if response != "y" && response != "Y" {
		fmt.Println("Operation cancelled")
		return 1
	}

	db, err := session.OpenDB(dir)
	if err != nil {
		fmt.Printf("Failed to open session store: %v\n", err)
		return 1
	}
	defer db.Close()

	if err := session.NewStore(db, cfg.SessionTTL).Purge(); err != nil {
		fmt.Printf("Failed to clean session store: %v\n", err)
		return 1
	}
	fmt.Println("Sessions cleaned successfully")
	return 0
}

// backup writes a full backup of the session store.
func backup() int {
	cfg, ok := loadConfig()
	if !ok {
		return 1
	}
	dir := sessionDir(cfg)
	if dir == "" {
		return 1
	}

	if err := os.MkdirAll(backupDir, 0755); err != nil {
		fmt.Printf("Failed to create backup directory: %v\n", err)
		return 1
	}

	db, err := session.OpenDB(dir)
	if err != nil {
		fmt.Printf("Failed to open session store: %v\n", err)
		return 1
	}
	defer db.Close()

	backupFile := filepath.Join(backupDir, fmt.Sprintf("sessions_%d.bak", time.Now().Unix()))
	f, err := os.Create(backupFile)
	if err != nil {
		fmt.Printf("Failed to create backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if _, err := db.Backup(f, 0); err != nil {
		fmt.Printf("Failed to backup session store: %v\n", err)
		return 1
	}

	fmt.Printf("Session store backed up successfully to %s\n", backupFile)
	return 0
}

// restore loads a backup into the session store, replacing what is there.
func restore(backupFile string) int {
	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		fmt.Printf("Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if err != nil {
		fmt.Printf("Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Printf("Backup file is empty: %s\n", backupFile)
		return 1
	}

	cfg, ok := loadConfig()
	if !ok {
		return 1
	}
	dir := cfg.SessionStorePath()
	if dir == "" {
		fmt.Println("Session store is in memory; nothing to restore into")
		return 1
	}

	if _, err := os.Stat(dir); err == nil {
		fmt.Print("Existing session store found. Do you want to replace it? [y/N] ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Operation cancelled")
			return 1
		}
		if err := os.RemoveAll(dir); err != nil {
			fmt.Printf("Failed to remove existing session store: %v\n", err)
			return 1
		}
	}

	db, err := session.OpenDB(dir)
	if err != nil {
		fmt.Printf("Failed to open session store: %v\n", err)
		return 1
	}
	defer db.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		fmt.Printf("Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if err := loadBackup(db, f); err != nil {
		fmt.Printf("Failed to restore session store: %v\n", err)
		return 1
	}

	fmt.Println("Session store restored successfully")
	return 0
}

// loadBackup feeds a backup stream into db. Badger panics on some malformed
// streams, so a panic is reported as an error.
func loadBackup(db *badger.DB, f *os.File) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic occurred during restore: %v", r)
		}
	}()
	return db.Load(f, 4)
}
