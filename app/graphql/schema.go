// Package graphql exposes a read-only administrative query surface over
// orders, mounted beside the REST admin endpoints.
package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/shashiranjanraj/vastra/app/resources"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/collection"
	gql "github.com/shashiranjanraj/vastra/pkg/graphql"
	"github.com/shashiranjanraj/vastra/pkg/response"
)

var orderItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "OrderItem",
	Fields: graphql.Fields{
		"productId": &graphql.Field{Type: graphql.Int},
		"name":      &graphql.Field{Type: graphql.String},
		"price":     &graphql.Field{Type: graphql.Float},
		"quantity":  &graphql.Field{Type: graphql.Int},
		"image":     &graphql.Field{Type: graphql.String},
	},
})

var orderUserType = graphql.NewObject(graphql.ObjectConfig{
	Name: "OrderUser",
	Fields: graphql.Fields{
		"id":    &graphql.Field{Type: graphql.Int},
		"name":  &graphql.Field{Type: graphql.String},
		"email": &graphql.Field{Type: graphql.String},
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"id":                &graphql.Field{Type: graphql.Int},
		"orderId":           &graphql.Field{Type: graphql.String},
		"status":            &graphql.Field{Type: graphql.String},
		"paymentStatus":     &graphql.Field{Type: graphql.String},
		"paymentMethod":     &graphql.Field{Type: graphql.String},
		"totalAmount":       &graphql.Field{Type: graphql.Float},
		"discountAmount":    &graphql.Field{Type: graphql.Float},
		"shippingAmount":    &graphql.Field{Type: graphql.Float},
		"taxAmount":         &graphql.Field{Type: graphql.Float},
		"trackingNumber":    &graphql.Field{Type: graphql.String},
		"notes":             &graphql.Field{Type: graphql.String},
		"estimatedDelivery": &graphql.Field{Type: graphql.DateTime},
		"deliveredAt":       &graphql.Field{Type: graphql.DateTime},
		"createdAt":         &graphql.Field{Type: graphql.DateTime},
		"items":             &graphql.Field{Type: graphql.NewList(orderItemType)},
		"user":              &graphql.Field{Type: orderUserType},
	},
})

var statusCountType = graphql.NewObject(graphql.ObjectConfig{
	Name: "StatusCount",
	Fields: graphql.Fields{
		"status": &graphql.Field{Type: graphql.String},
		"count":  &graphql.Field{Type: graphql.Int},
	},
})

var statsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "OrderStats",
	Fields: graphql.Fields{
		"total":    &graphql.Field{Type: graphql.Int},
		"today":    &graphql.Field{Type: graphql.Int},
		"byStatus": &graphql.Field{Type: graphql.NewList(statusCountType)},
	},
})

func rootQuery(orders *services.OrderService) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"orders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Args: graphql.FieldConfigArgument{
					"page":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					page, _ := p.Args["page"].(int)
					limit, _ := p.Args["limit"].(int)
					list, _, err := orders.List(p.Context, page, limit)
					if err != nil {
						return nil, err
					}
					return collection.Map(list, resources.AdminOrder), nil
				},
			},
			"order": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					"idOrCode": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					idOrCode, _ := p.Args["idOrCode"].(string)
					order, err := orders.Get(p.Context, idOrCode)
					if err != nil {
						return nil, err
					}
					return resources.AdminOrder(order), nil
				},
			},
			"orderStats": &graphql.Field{
				Type: statsType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return orders.GetStats(p.Context)
				},
			},
		},
	})
}

// NewHandler builds the POST handler serving the admin schema.
func NewHandler(orders *services.OrderService) (http.HandlerFunc, error) {
	schema, err := gql.NewSchema(rootQuery(orders))
	if err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid GraphQL request")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  body.Query,
			VariableValues: body.Variables,
			Context:        r.Context(),
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result) //nolint:errcheck
	}, nil
}
