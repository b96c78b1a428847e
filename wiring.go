package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/api"
	"github.com/rpupo63/portfolio-site/auth"
	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/config"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/services"
	"github.com/rpupo63/portfolio-site/storage"
)

// buildDeps assembles the server components for DB_TYPE:
//
//	supa    Supabase Postgres rows and the Supabase storage bucket
//	sqlite  local rows; the bucket when storage keys are set, in-memory files otherwise
//	memory  everything in memory, lost on restart
func buildDeps(ctx context.Context, c map[string]string) (api.Deps, func(), error) {
	closeBackend := func() {}
	dbType := config.GetString(c, "DB_TYPE", "supa")
	bucketName := config.GetString(c, "STORAGE_BUCKET", storage.DefaultBucket)

	var (
		rows  backend.Rows
		files backend.Files
		media http.Handler
	)

	switch dbType {
	case "memory":
		mem := backend.NewMemory(bucketName)
		rows, files, media = mem, mem, mem
	case "supa", "sqlite":
		if dbType == "supa" {
			if err := config.Require(c, "SUPABASE_URL", "SUPABASE_ANON_KEY"); err != nil {
				return api.Deps{}, closeBackend, err
			}
		}

		db, err := openDatabase(c)
		if err != nil {
			return api.Deps{}, closeBackend, err
		}
		if sqlDB, err := db.DB().DB(); err == nil {
			closeBackend = func() { sqlDB.Close() }
		}
		if dbType == "sqlite" {
			if err := db.Migrate(); err != nil {
				return api.Deps{}, closeBackend, err
			}
		}
		rows = db.RowRepo()

		if dbType == "supa" || config.GetString(c, "STORAGE_ACCESS_KEY_ID", "") != "" {
			bucket, err := storage.NewSupabaseBucket(ctx, c)
			if err != nil {
				return api.Deps{}, closeBackend, err
			}
			files = bucket
		} else {
			mem := backend.NewMemory(bucketName)
			files, media = mem, mem
		}
	default:
		return api.Deps{}, closeBackend, errs.NewConfigError("DB_TYPE", fmt.Errorf("unsupported DB_TYPE %q", dbType))
	}

	gate, err := buildGate(c)
	if err != nil {
		return api.Deps{}, closeBackend, err
	}

	log.Info().Str("backend", dbType).Str("bucket", files.Bucket()).Msg("backend ready")
	return api.Deps{
		Backend:     backend.New(rows, files),
		BackendName: dbType,
		Gate:        gate,
		Mailer:      services.NewMailer(c),
		CV: services.NewCVService(
			config.GetString(c, "SITE_OWNER", "Portfolio"),
			services.NewChromedpRenderer(config.GetString(c, "CHROME_PATH", "")),
		),
		Media: media,
	}, closeBackend, nil
}

// buildGate signs in against Supabase Auth when the project is configured and against
// ADMIN_EMAIL/ADMIN_PASSWORD_HASH otherwise.
func buildGate(c map[string]string) (*auth.Gate, error) {
	var authenticator auth.Authenticator
	if supabaseURL := config.GetString(c, "SUPABASE_URL", ""); supabaseURL != "" {
		if err := config.Require(c, "SUPABASE_ANON_KEY"); err != nil {
			return nil, err
		}
		authenticator = auth.NewGoTrue(supabaseURL, config.GetString(c, "SUPABASE_ANON_KEY", ""), &http.Client{Timeout: 15 * time.Second})
	} else {
		if err := config.Require(c, "ADMIN_EMAIL", "ADMIN_PASSWORD_HASH"); err != nil {
			return nil, err
		}
		authenticator = auth.NewStatic(config.GetString(c, "ADMIN_EMAIL", ""), config.GetString(c, "ADMIN_PASSWORD_HASH", ""))
	}

	secret := []byte(config.GetString(c, "SESSION_SECRET", ""))
	if len(secret) == 0 {
		if isProduction(c) {
			return nil, errs.NewEnvironmentVariableError("SESSION_SECRET")
		}
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
		log.Warn().Msg("SESSION_SECRET is not set, sessions will not survive a restart")
	}

	ttl := time.Duration(config.GetInt(c, "SESSION_TTL_HOURS", 12)) * time.Hour
	secure := config.GetBool(c, "COOKIE_SECURE", isProduction(c))
	return auth.NewGate(authenticator, auth.NewSessions(secret, ttl, secure)), nil
}
