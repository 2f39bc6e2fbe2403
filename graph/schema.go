// Package graph exposes the admin GraphQL API.
package graph

import (
	"github.com/goliatone/go-merchant-auth"
	"github.com/graphql-go/graphql"
)

var actionResultType = graphql.NewObject(graphql.ObjectConfig{
	Name:        "ActionResult",
	Description: "Outcome of an auth action, exactly one field is set.",
	Fields: graphql.Fields{
		"success": &graphql.Field{Type: graphql.String},
		"error":   &graphql.Field{Type: graphql.String},
	},
})

// NewSchema builds the schema with auth mutations backed by actions
func NewSchema(actions auth.ActionRunner) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"status": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"login": &graphql.Field{
				Type: graphql.NewNonNull(actionResultType),
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					res, err := actions.Login(p.Context, auth.LoginValues{
						Email:    stringArg(p, "email"),
						Password: stringArg(p, "password"),
					})
					if err != nil {
						return nil, err
					}
					return toMap(res), nil
				},
			},
			"register": &graphql.Field{
				Type: graphql.NewNonNull(actionResultType),
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"name":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					res, err := actions.Register(p.Context, auth.RegisterValues{
						Email:    stringArg(p, "email"),
						Password: stringArg(p, "password"),
						Name:     stringArg(p, "name"),
					})
					if err != nil {
						return nil, err
					}
					return toMap(res), nil
				},
			},
			"forgotPassword": &graphql.Field{
				Type: graphql.NewNonNull(actionResultType),
				Args: graphql.FieldConfigArgument{
					"value": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					res, err := actions.ForgotPassword(p.Context, stringArg(p, "value"))
					if err != nil {
						return nil, err
					}
					return toMap(res), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

func stringArg(p graphql.ResolveParams, name string) string {
	v, _ := p.Args[name].(string)
	return v
}

func toMap(res auth.ActionResult) map[string]any {
	out := map[string]any{"success": nil, "error": nil}
	if res.Success != "" {
		out["success"] = res.Success
	}
	if res.Error != "" {
		out["error"] = res.Error
	}
	return out
}
