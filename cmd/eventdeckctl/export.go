package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/eventdeckhq/eventdeck/pkg/config"
	"github.com/eventdeckhq/eventdeck/pkg/db"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the Eventdeck data for migration",
	Long: `Export the Eventdeck data necessary to migrate to another instance.

This command exports:
- Database dump (pg_dump)
- Token-signing secret key (when SECRET_KEY is set)
- Registered user list

The export is encrypted with a generated key file.

Example:
  eventdeckctl export
  eventdeckctl export --out-dir /backup --label mybackup`,
	Run: func(cmd *cobra.Command, args []string) {
		outDir, _ := cmd.Flags().GetString("out-dir")
		label, _ := cmd.Flags().GetString("label")

		if label == "" {
			label = time.Now().Format("2006-01-02T15-04-05Z")
		}

		if err := runExport(outDir, label); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("out-dir", "o", ".", "Output directory")
	exportCmd.Flags().StringP("label", "l", "", "Label for archive filename (default: timestamp)")
}

func runExport(outDir, label string) error {
	dbURL := db.URL()
	if dbURL == "" {
		return fmt.Errorf("database_url is not configured, set DATABASE_URL")
	}

	fmt.Printf("Exporting to '%s'...\n", outDir)

	if err := os.MkdirAll(outDir, 0770); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	keyFile, err := ensureExportKey(outDir)
	if err != nil {
		return err
	}

	backupDir := filepath.Join(outDir, "backup")
	etcDir := filepath.Join(outDir, "etc")
	for _, dir := range []string{backupDir, etcDir} {
		if err := os.MkdirAll(dir, 0770); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	if err := dumpDatabase(dbURL, filepath.Join(backupDir, "eventdeck.db")); err != nil {
		return err
	}
	if err := exportSecretKey(etcDir); err != nil {
		return err
	}
	if err := exportUserList(dbURL, filepath.Join(backupDir, "users")); err != nil {
		return err
	}

	archiveFile := filepath.Join(outDir, label+".tar.xz")
	if err := archiveAndEncrypt(outDir, archiveFile, keyFile); err != nil {
		return err
	}

	// Only the encrypted archive is left behind
	_ = os.RemoveAll(backupDir)
	_ = os.RemoveAll(etcDir)
	_ = os.Remove(archiveFile)

	fmt.Println()
	fmt.Printf("Export placed in %s.gpg\n", archiveFile)
	fmt.Printf("It's encrypted with key in %s.\n", keyFile)
	fmt.Println("If you're going to store the export, make")
	fmt.Println("sure to store the key file separately.")

	return nil
}

// ensureExportKey returns the path of the archive encryption key,
// generating one when the output directory has none yet.
func ensureExportKey(outDir string) (string, error) {
	keyFile := filepath.Join(outDir, "key")
	if _, err := os.Stat(keyFile); err == nil {
		fmt.Printf("Using key from %s\n", keyFile)
		return keyFile, nil
	}

	fmt.Printf("Generating key file %s\n", keyFile)
	keyBytes := make([]byte, 64)
	if _, err := rand.Read(keyBytes); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	if err := os.WriteFile(keyFile, []byte(base64.StdEncoding.EncodeToString(keyBytes)), 0600); err != nil {
		return "", fmt.Errorf("failed to write key file: %w", err)
	}
	return keyFile, nil
}

func dumpDatabase(dbURL, path string) error {
	fmt.Println("Exporting database...")
	pgDump := exec.Command("pg_dump", "-Fc", "-f", path, dbURL)
	pgDump.Stderr = os.Stderr
	if err := pgDump.Run(); err != nil {
		return fmt.Errorf("pg_dump failed: %w", err)
	}
	return nil
}

// exportSecretKey saves the token-signing secret so tokens issued by this
// instance stay valid after the move. The built-in default key is never
// exported.
func exportSecretKey(etcDir string) error {
	cfg := config.Get()
	if cfg.IsDefaultSecretKey() {
		fmt.Println("SECRET_KEY is not set, skipping secret key export")
		return nil
	}

	path := filepath.Join(etcDir, "eventdeck.key")
	if err := os.WriteFile(path, []byte("SECRET_KEY="+cfg.SecretKey+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write secret key file: %w", err)
	}
	return nil
}

func exportUserList(dbURL, path string) error {
	fmt.Println("Exporting user list...")
	psql := exec.Command("psql", dbURL, "-t", "-c",
		"SELECT email || ' ' || role FROM users ORDER BY id")
	out, err := psql.Output()
	if err != nil {
		return fmt.Errorf("failed to get users: %w", err)
	}
	if err := os.WriteFile(path, out, 0600); err != nil {
		return fmt.Errorf("failed to write users file: %w", err)
	}
	return nil
}

func archiveAndEncrypt(outDir, archiveFile, keyFile string) error {
	fmt.Println("Creating archive...")
	tar := exec.Command("tar", "Jcf", archiveFile, "-C", outDir,
		"--transform=s|^|/opt/eventdeck/|",
		"backup", "etc")
	tar.Stderr = os.Stderr
	if err := tar.Run(); err != nil {
		return fmt.Errorf("tar failed: %w", err)
	}

	fmt.Println("Encrypting archive...")
	gpg := exec.Command("gpg", "-c", "--cipher-algo", "AES256", "--batch",
		"--passphrase-file", keyFile, "--no-use-agent", archiveFile)
	gpg.Stderr = os.Stderr
	if err := gpg.Run(); err != nil {
		return fmt.Errorf("gpg encryption failed: %w", err)
	}
	return nil
}
