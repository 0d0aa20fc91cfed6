// Package main seeds a development database with demo articles and users.
package main

import (
	"context"
	"fmt"
	"os"

	"bricostore/internal/core/apperror"
	"bricostore/internal/core/types"
	"bricostore/internal/domain/auth"
	"bricostore/internal/domain/catalog/article"
	"bricostore/internal/infrastructure/storage/postgres"
	"bricostore/internal/infrastructure/storage/postgres/auth_repo"
	"bricostore/internal/infrastructure/storage/postgres/catalog_repo"
	"bricostore/pkg/logger"
)

var demoArticles = []article.Article{
	{Reference: "VIS001", Family: "visserie", UnitPrice: types.MustMoney("0.15"), Stock: 1000},
	{Reference: "VIS002", Family: "visserie", UnitPrice: types.MustMoney("0.25"), Stock: 500},
	{Reference: "OUT001", Family: "outillage", UnitPrice: types.MustMoney("25.90"), Stock: 20},
	{Reference: "OUT002", Family: "outillage", UnitPrice: types.MustMoney("45.50"), Stock: 15},
	{Reference: "PEI001", Family: "peinture", UnitPrice: types.MustMoney("12.99"), Stock: 50},
	{Reference: "PEI002", Family: "peinture", UnitPrice: types.MustMoney("18.75"), Stock: 30},
}

var demoUsers = []struct {
	email    string
	password string
	roles    []string
}{
	{"operator@bricostore.local", "operator-demo-pass", []string{auth.RoleOperator}},
	{"manager@bricostore.local", "manager-demo-pass", []string{auth.RoleManager}},
}

func main() {
	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := postgres.ApplySchema(ctx, pool); err != nil {
		log.Fatalw("failed to apply schema", "error", err)
	}

	txManager := postgres.NewTxManager(pool)

	articleRepo := catalog_repo.NewArticleRepo(txManager)
	for i := range demoArticles {
		a := demoArticles[i]
		err := articleRepo.Create(ctx, &a)
		if apperr, ok := apperror.AsAppError(err); ok && apperr.Code == apperror.CodeConflict {
			log.Infow("article exists, skipping", "reference", a.Reference)
			continue
		}
		if err != nil {
			log.Fatalw("failed to seed article", "reference", a.Reference, "error", err)
		}
		log.Infow("article seeded", "reference", a.Reference, "stock", a.Stock)
	}

	authService := auth.NewService(auth_repo.NewUserRepo(txManager), auth.NewJWTService(auth.DefaultJWTConfig("seed-unused")))
	for _, u := range demoUsers {
		_, err := authService.Register(ctx, u.email, u.password, u.roles)
		if apperr, ok := apperror.AsAppError(err); ok && apperr.Code == apperror.CodeConflict {
			log.Infow("user exists, skipping", "email", u.email)
			continue
		}
		if err != nil {
			log.Fatalw("failed to seed user", "email", u.email, "error", err)
		}
		log.Infow("user seeded", "email", u.email, "roles", u.roles)
	}

	log.Info("seed complete")
}
