package graph

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
)

const DefaultPath = "/api/graphql"

// NewHandler serves schema over HTTP. GraphiQL is only served in development.
func NewHandler(schema graphql.Schema, development bool) *handler.Handler {
	return handler.New(&handler.Config{
		Schema:     &schema,
		Pretty:     true,
		GraphiQL:   development,
		Playground: false,
	})
}

// Mount routes GET and POST on path to h
func Mount(app fiber.Router, path string, h http.Handler) {
	if path == "" {
		path = DefaultPath
	}
	fh := adaptor.HTTPHandler(h)
	app.Get(path, fh).Name("graphql.get")
	app.Post(path, fh).Name("graphql.post")
}
