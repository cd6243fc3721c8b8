package handlers

// @title Order Pricing API
// @version 1.0
// @description Stateless pricing and tax engine for sales document line items
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api/v1

// @tag.name pricing
// @tag.description Document totals and tender checks

// @tag.name health
// @tag.description Service health
