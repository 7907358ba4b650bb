// seed inserts development sample data for local testing and prints access tokens for each dev user.
// Idempotent: skips inserts if the dev admin (admin@example.com) already exists.
// Requires JWT_PRIVATE_KEY to mint tokens.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"taskflow/backend/internal/config"
	"taskflow/backend/internal/db"
	identityservice "taskflow/backend/internal/identity/service"
	invrepo "taskflow/backend/internal/invitation/repository"
	membershiprepo "taskflow/backend/internal/membership/repository"
	membershipservice "taskflow/backend/internal/membership/service"
	"taskflow/backend/internal/platform/ident"
	"taskflow/backend/internal/security"
	taskrepo "taskflow/backend/internal/task/repository"
	taskservice "taskflow/backend/internal/task/service"
	teamrepo "taskflow/backend/internal/team/repository"
	userdomain "taskflow/backend/internal/user/domain"
	userrepo "taskflow/backend/internal/user/repository"
)

const (
	devAdminID  ident.ID = "dev-user-admin"
	devLeadID   ident.ID = "dev-user-lead"
	devMemberID ident.ID = "dev-user-member"
	devLoneID   ident.ID = "dev-user-lone"
)

var devUsers = []userdomain.User{
	{ID: devAdminID, Email: "admin@example.com", Name: "Dev Admin", Role: userdomain.RoleAdmin},
	{ID: devLeadID, Email: "lead@example.com", Name: "Dev Lead", Role: userdomain.RoleUser},
	{ID: devMemberID, Email: "member@example.com", Name: "Dev Member", Role: userdomain.RoleUser},
	{ID: devLoneID, Email: "viewer@example.com", Name: "Dev Viewer", Role: userdomain.RoleViewer},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env or set DATABASE_URL")
	}
	signer, publicKey, err := security.LoadKeys(cfg.JWTPrivateKey, cfg.JWTPublicKey)
	if err != nil {
		log.Fatalf("keys: %v", err)
	}
	tokens := security.NewTokenProvider(signer, publicKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL())

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)

	existing, err := users.GetByEmail(ctx, devUsers[0].Email)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (admin@example.com exists). Skipping inserts.")
	} else if err := seed(ctx, cfg, conn, users); err != nil {
		log.Fatalf("seed: %v", err)
	}

	fmt.Printf("Access tokens (valid %s):\n", cfg.AccessTTL())
	for _, u := range devUsers {
		token, _, _, err := tokens.IssueAccess(ident.New().String(), u.ID.String())
		if err != nil {
			log.Fatalf("issue token for %s: %v", u.Email, err)
		}
		fmt.Printf("  %-20s %s\n", u.Email, token)
	}
}

// seed creates the dev users, a team led by the lead with the member invited and accepted,
// and a handful of tasks with different visibilities.
func seed(ctx context.Context, cfg *config.Config, conn *sql.DB, users *userrepo.PostgresRepository) error {
	now := time.Now().UTC()
	for _, u := range devUsers {
		u.CreatedAt, u.UpdatedAt = now, now
		if err := users.Create(ctx, &u); err != nil {
			return fmt.Errorf("create user %s: %w", u.Email, err)
		}
	}

	teams := membershipservice.NewService(membershipservice.Deps{
		Users:             users,
		Teams:             teamrepo.NewPostgresRepository(conn),
		Invitations:       invrepo.NewPostgresRepository(conn),
		Store:             membershiprepo.NewPostgresRepository(conn),
		DefaultMaxMembers: cfg.TeamDefaultMaxMembers,
	})
	team, err := teams.CreateTeam(ctx, devLeadID, membershipservice.CreateTeamInput{Name: "Platform", Description: "Dev sample team"})
	if err != nil {
		return fmt.Errorf("create team: %w", err)
	}
	inv, err := teams.Invite(ctx, devLeadID, "member@example.com")
	if err != nil {
		return fmt.Errorf("invite member: %w", err)
	}
	if _, err := teams.RespondToInvite(ctx, devMemberID, inv.ID, true); err != nil {
		return fmt.Errorf("accept invite: %w", err)
	}

	principals := identityservice.NewResolver(users, nil)
	tasks := taskservice.NewService(taskrepo.NewPostgresRepository(conn), users, nil)
	samples := []struct {
		creator ident.ID
		in      taskservice.CreateTaskInput
	}{
		{devLeadID, taskservice.CreateTaskInput{Title: "Plan sprint", Priority: "high", AssignedTo: devMemberID}},
		{devMemberID, taskservice.CreateTaskInput{Title: "Fix login redirect", Status: "in_progress"}},
		{devMemberID, taskservice.CreateTaskInput{Title: "Personal notes", Visibility: "private"}},
		{devLeadID, taskservice.CreateTaskInput{Title: "Release announcement", Visibility: "public", Priority: "urgent"}},
		{devAdminID, taskservice.CreateTaskInput{Title: "Audit team settings", TeamID: team.ID, SharedWith: []ident.ID{devLoneID}}},
	}
	for _, s := range samples {
		p, err := principals.Resolve(ctx, s.creator)
		if err != nil {
			return err
		}
		if _, err := tasks.CreateTask(ctx, p, s.in); err != nil {
			return fmt.Errorf("create task %q: %w", s.in.Title, err)
		}
	}
	log.Println("Seed completed successfully.")
	return nil
}
