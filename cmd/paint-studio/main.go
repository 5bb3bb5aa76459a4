package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/studiopnt/paint-studio-mcp/internal/config"
	"github.com/studiopnt/paint-studio-mcp/internal/logging"
	"github.com/studiopnt/paint-studio-mcp/internal/pnt"
	"github.com/studiopnt/paint-studio-mcp/internal/render"
	"github.com/studiopnt/paint-studio-mcp/internal/server"
	"github.com/studiopnt/paint-studio-mcp/internal/session"
	"github.com/studiopnt/paint-studio-mcp/internal/template"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("paint-studio-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("paint-studio-mcp - MCP server for .pnt painting generation")
			fmt.Println()
			fmt.Println("Usage: paint-studio-mcp [config.yaml]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  PAINT_STUDIO_ASSETS       Asset root directory")
			fmt.Println("  PAINT_STUDIO_TEMPLATES    Template descriptor directory")
			fmt.Println("  PAINT_STUDIO_PALETTE      Dye palette JSON resource")
			fmt.Println("  PAINT_STUDIO_EXTERNAL     External .pnt library root")
			fmt.Println("  PAINT_STUDIO_SCRATCH      Generation scratch directory")
			fmt.Println("  PAINT_STUDIO_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client.")
			return
		}
	}

	// A local .env is optional; deployments usually set real env vars.
	_ = godotenv.Load()

	configPath := "paint-studio.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// All logging goes to the rotating file (and stderr in development);
	// stdout is reserved for MCP protocol traffic.
	logger := logging.New(cfg.Development, cfg.LogFile)
	defer logger.Sync()
	logger.Info("paint studio starting",
		zap.String("version", Version),
		zap.String("assets", cfg.AssetsRoot),
		zap.String("templates", cfg.TemplatesRoot))

	store, err := template.NewStore(cfg.TemplatesRoot)
	if err != nil {
		logger.Fatal("template index failed", zap.Error(err))
	}

	engine := render.New(logger.Named("render"), render.ContainerEncoder{})
	studio := session.New(logger.Named("session"), cfg, store, engine,
		pnt.ContainerValidator{}, pnt.ContainerInspector{}, pnt.FSScanner{})
	studio.Init()

	srv := server.New(studio, logger.Named("server"))
	if err := srv.Run(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
