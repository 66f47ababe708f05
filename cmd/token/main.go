package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/erp/lobapi/internal/infrastructure/auth"
	"github.com/erp/lobapi/internal/infrastructure/cache"
	"github.com/erp/lobapi/internal/infrastructure/config"
	"github.com/erp/lobapi/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	flag.Usage = printUsage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: "info", Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	jwtService := auth.NewJWTService(cfg.JWT)

	switch args[0] {
	case "issue":
		issue(log, jwtService, args[1:])
	case "revoke":
		revoke(log, cfg, jwtService, args[1:])
	default:
		log.Error("Unknown command", zap.String("command", args[0]))
		printUsage()
		os.Exit(1)
	}
}

func issue(log *zap.Logger, jwtService *auth.JWTService, args []string) {
	fs := flag.NewFlagSet("issue", flag.ExitOnError)
	tenant := fs.String("tenant", "", "Tenant id (required)")
	user := fs.String("user", "", "User id; a random id when empty")
	username := fs.String("username", "", "Display name carried in the token")
	permissions := fs.String("permissions", "*:*", "Comma separated <resource>:<action> grants")
	ttl := fs.Duration("ttl", 0, "Token lifetime; the configured expiration when zero")
	_ = fs.Parse(args)

	tenantID, err := uuid.Parse(*tenant)
	if err != nil {
		log.Fatal("Invalid -tenant", zap.String("value", *tenant))
	}
	userID := uuid.New()
	if *user != "" {
		if userID, err = uuid.Parse(*user); err != nil {
			log.Fatal("Invalid -user", zap.String("value", *user))
		}
	}

	token, err := jwtService.Issue(auth.IssueInput{
		TenantID:    tenantID,
		UserID:      userID,
		Username:    *username,
		Permissions: splitList(*permissions),
		TTL:         *ttl,
	})
	if err != nil {
		log.Fatal("Failed to issue token", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(token)
}

func revoke(log *zap.Logger, cfg *config.Config, jwtService *auth.JWTService, args []string) {
	if len(args) == 0 {
		log.Fatal("Token required. Usage: token revoke <access_token>")
	}
	if cfg.Redis.Host == "" {
		log.Fatal("Revocation needs Redis; set redis.host")
	}

	claims, err := jwtService.ValidateAccessToken(args[0])
	if err != nil {
		log.Fatal("Token is not valid, nothing to revoke", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer client.Close()

	blacklist := auth.NewRedisTokenBlacklist(client, cfg.App.Name)
	if err := blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		log.Fatal("Failed to revoke token", zap.Error(err))
	}
	log.Info("Token revoked", zap.String("jti", claims.ID), zap.Duration("ttl", claims.RemainingTTL()))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printUsage() {
	fmt.Println(`LOB API access token tool

Usage:
  token issue -tenant <uuid> [-user <uuid>] [-username <name>] [-permissions a:b,c:d] [-ttl 1h]
  token revoke <access_token>

JWT and Redis settings come from config.toml or ERP_* environment variables.`)
}
