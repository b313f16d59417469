package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eventdeckhq/eventdeck/pkg/auth"
	"github.com/eventdeckhq/eventdeck/pkg/config"
	"github.com/eventdeckhq/eventdeck/pkg/db"
	"github.com/eventdeckhq/eventdeck/pkg/server"
	"github.com/eventdeckhq/eventdeck/pkg/server/endpoints"
	"github.com/eventdeckhq/eventdeck/pkg/storage"
	"github.com/eventdeckhq/eventdeck/pkg/worker"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

func defaultWorkers() int {
	if workers := os.Getenv("WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil {
			return w
		}
	}
	return 2
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the Eventdeck API server",
	Long: `Run the Eventdeck API server.

Running the server requires a configured database_url, from the
configuration file or the DATABASE_URL environment variable. SECRET_KEY
should be set to a non-default value in production; generate one with
"eventdeckctl secret-key generate".

By default, database migrations are run on startup. Use --no-migrate to skip.

SIGHUP reloads the file-backed configuration. SIGINT and SIGTERM shut the
server down gracefully, draining in-flight requests and background work.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Fail fast before touching migrations
		cfg := config.Get()
		if cfg.DatabaseURL == "" {
			fmt.Fprintln(os.Stderr, "database_url is not configured, set DATABASE_URL")
			os.Exit(1)
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		if cfg.IsDefaultSecretKey() {
			log.Println("WARNING: SECRET_KEY is unset, tokens are signed with the default key. Generate one with \"eventdeckctl secret-key generate\".")
		}

		database, err := db.Connect(db.Config{URL: cfg.DatabaseURL})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to connect to DB: %v\n", err)
			os.Exit(1)
		}

		objects, err := storage.New(storage.Options{
			Endpoint:   cfg.S3Endpoint,
			Bucket:     cfg.S3Bucket,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Region:     cfg.S3Region,
			PublicBase: cfg.S3PublicBase,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to initialize image storage: %v\n", err)
			os.Exit(1)
		}
		if !objects.Enabled() {
			log.Println("Image storage is not configured, event image uploads are disabled")
		}

		workers, _ := cmd.Flags().GetInt("workers")
		pool := worker.NewPool(workers)
		pool.Start()
		log.Printf("Started %d background workers", pool.Size())

		tokens := auth.NewTokenService([]byte(cfg.SecretKey), cfg.TokenTTL())

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(database, cfg, server.NewGormStores(database), tokens, objects, pool, host, port)

		endpoints.RegisterAll(s)

		// SIGHUP reloads the file-backed configuration
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		go func() {
			for range hup {
				log.Println("Received SIGHUP, reloading configuration...")
				if err := config.Reload(); err != nil {
					log.Printf("Configuration reload failed: %v", err)
				}
			}
		}()

		// SIGINT/SIGTERM stop the server and drain the worker pool
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		done := make(chan struct{})
		go func() {
			<-stop
			log.Println("Shutting down...")
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := s.Shutdown(ctx); err != nil {
				log.Printf("Shutdown error: %v", err)
			}
			pool.Stop()
			close(done)
		}()

		log.Printf("Running server at http://%s:%s...\n", host, port)
		if err := s.Start(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
		<-done
		log.Println("Server stopped")
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// serverCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Int("workers", defaultWorkers(), "background worker pool size")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
