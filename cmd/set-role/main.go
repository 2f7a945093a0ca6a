// Command set-role writes the member or organizer role claim for a user.
// Users must sign in again (or refresh their ID token) to pick it up.
package main

import (
	"context"
	"flag"
	"fmt"

	"community-sport/backend/internal/config"
	"community-sport/backend/internal/domain/role"
	"community-sport/backend/internal/firebase"
	"community-sport/backend/internal/logger"
)

func main() {
	uid := flag.String("uid", "", "target firebase uid")
	roleName := flag.String("role", "", "member or organizer")
	flag.Parse()

	log := logger.New(logger.Config{Level: logger.INFO, Format: logger.TEXT})
	if *uid == "" {
		log.Fatal("uid is required: -uid=xxxxx")
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, config.Load())
	if err != nil {
		log.Fatal("Firebase app init failed", "error", err)
	}
	authClient, err := firebase.NewAuthClient(ctx, app)
	if err != nil {
		log.Fatal("Firebase auth client init failed", "error", err)
	}

	out, err := role.NewService(authClient, log).SetRole(ctx, role.System(), role.SetRoleInput{UID: *uid, Role: *roleName})
	if err != nil {
		log.Fatal("Set role failed", "error", err)
	}

	fmt.Printf("ok: role %s set for %s\n", out.Role, out.UID)
}
