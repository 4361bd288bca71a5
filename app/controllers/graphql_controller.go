package controllers

import (
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/voltmart/voltmart/app/services"
	gqlpkg "github.com/voltmart/voltmart/pkg/graphql"
)

// NewGraphQLHandler exposes a read-only catalogue query surface. Mutations
// stay on the REST side where the role guards live.
func NewGraphQLHandler(products *services.ProductService, categories *services.CategoryService) (http.HandlerFunc, error) {
	categoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"name":        &graphql.Field{Type: graphql.String},
			"parentId":    &graphql.Field{Type: graphql.Int},
			"description": &graphql.Field{Type: graphql.String},
		},
	})

	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"name":        &graphql.Field{Type: graphql.String},
			"modelNumber": &graphql.Field{Type: graphql.String},
			"categoryId":  &graphql.Field{Type: graphql.Int},
			"brand":       &graphql.Field{Type: graphql.String},
			"price":       &graphql.Field{Type: graphql.Float},
			"unit":        &graphql.Field{Type: graphql.String},
			"stock":       &graphql.Field{Type: graphql.Int},
			"description": &graphql.Field{Type: graphql.String},
		},
	})

	root := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					return products.Get(uint(id))
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"categoryId": &graphql.ArgumentConfig{Type: graphql.Int},
					"keyword":    &graphql.ArgumentConfig{Type: graphql.String},
					"brand":      &graphql.ArgumentConfig{Type: graphql.String},
					"page":       &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"pageSize":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := services.ProductQuery{}
					if v, ok := p.Args["categoryId"].(int); ok {
						q.CategoryID = uint(v)
					}
					if v, ok := p.Args["keyword"].(string); ok {
						q.Keyword = v
					}
					if v, ok := p.Args["brand"].(string); ok {
						q.Brand = v
					}
					if v, ok := p.Args["page"].(int); ok {
						q.Page = v
					}
					if v, ok := p.Args["pageSize"].(int); ok {
						q.PageSize = v
					}
					list, _, err := products.List(q)
					return list, err
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return categories.List()
				},
			},
		},
	})

	schema, err := gqlpkg.NewSchema(root)
	if err != nil {
		return nil, err
	}
	return gqlpkg.Handler(schema), nil
}
