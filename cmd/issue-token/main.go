// Command issue-token mints an access token for a front-desk or head-office
// user. Login is handled by the identity provider; this is for operators.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sangkips/salon-commission-api/internal/config"
	"github.com/sangkips/salon-commission-api/internal/logger"
	"github.com/sangkips/salon-commission-api/internal/presentation/http/routes"
	"github.com/sangkips/salon-commission-api/pkg/utils"
)

var (
	userID      = flag.String("user", "", "User ID (defaults to a new UUID)")
	email       = flag.String("email", "", "User email")
	roles       = flag.String("roles", "cashier", "Comma separated roles")
	permissions = flag.String("permissions", routes.PermManageTransactions, "Comma separated permissions, or \"all\"")
	branch      = flag.String("branch", "", "Branch ID the token is bound to (empty for head office)")
	ttl         = flag.Duration("ttl", 0, "Token lifetime (defaults to JWT_EXPIRY_HOURS)")
)

func main() {
	flag.Parse()

	// stdout carries only the token
	log := logger.NewWithWriter(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	sub := utils.TokenSubject{
		UserID:      uuid.New(),
		Email:       *email,
		Roles:       splitList(*roles),
		Permissions: splitList(*permissions),
	}
	if *permissions == "all" {
		sub.Permissions = routes.AllPermissions
	}
	if *userID != "" {
		if sub.UserID, err = uuid.Parse(*userID); err != nil {
			log.Fatal().Err(err).Msg("-user is not a UUID")
		}
	}
	if *branch != "" {
		id, err := uuid.Parse(*branch)
		if err != nil {
			log.Fatal().Err(err).Msg("-branch is not a UUID")
		}
		sub.BranchID = &id
	}

	expiry := cfg.JWT.ExpiryHours
	if *ttl > 0 {
		expiry = *ttl
	}

	token, err := utils.NewJWTManager(cfg.JWT.Secret, expiry).GenerateAccessToken(sub)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign token")
	}

	log.Info().
		Str("user_id", sub.UserID.String()).
		Strs("roles", sub.Roles).
		Strs("permissions", sub.Permissions).
		Dur("ttl", expiry).
		Time("expires_at", time.Now().Add(expiry)).
		Msg("token issued")
	fmt.Fprintln(os.Stdout, token)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
