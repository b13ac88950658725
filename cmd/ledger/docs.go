package main

// @title Asset Ledger Service API
// @version 1.0
// @description Append-only inventory ledger with atomic balance updates, role-scoped queries and derived dashboard metrics
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/garrison/asset-ledger
// @contact.email support@example.com

// @license.name MIT
// @license.url https://github.com/garrison/asset-ledger/blob/main/LICENSE

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Movements
// @tag.description Movement log endpoints

// @tag.name Dashboard
// @tag.description Derived dashboard metrics

// @tag.name Balances
// @tag.description Materialized balance lookups

// @tag.name Catalog
// @tag.description Location and item type management

// @tag.name Health
// @tag.description Health check endpoints

// @tag.name Swagger
// @tag.description Swagger documentation endpoints
