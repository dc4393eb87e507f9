// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/cart": {
            "get": {
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Current cart",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.cartView"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Clear cart",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.cartView"}}
                }
            }
        },
        "/api/cart/checkout": {
            "post": {
                "description": "Places an order from the cart at current prices and clears the cart",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Checkout session cart",
                "parameters": [
                    {"description": "Customer", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.cartCheckoutRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/order.CheckoutResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/cart/items": {
            "post": {
                "description": "Adds with quantity 1; adding a product already in the cart is a no-op",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Add product to cart",
                "parameters": [
                    {"description": "Product", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.addToCartRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.cartView"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/cart/items/{product_id}": {
            "put": {
                "description": "A quantity of 0 or less removes the line",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Set line quantity",
                "parameters": [
                    {"type": "integer", "description": "Product ID", "name": "product_id", "in": "path", "required": true},
                    {"description": "Quantity", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.updateQuantityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.cartView"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Remove line",
                "parameters": [
                    {"type": "integer", "description": "Product ID", "name": "product_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.cartView"}}
                }
            }
        },
        "/api/checkout": {
            "post": {
                "description": "Validates the payload and stores the order and its items atomically",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Place order",
                "parameters": [
                    {"description": "Checkout", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/order.CheckoutRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/order.CheckoutResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/orders": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Order history",
                "parameters": [
                    {"type": "string", "description": "Customer email", "name": "email", "in": "query", "required": true},
                    {"type": "integer", "description": "Max rows (default 20, max 100)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/orders/{id}": {
            "get": {
                "description": "Order with line items joined to products",
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Get order",
                "parameters": [
                    {"type": "integer", "description": "Order ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/order.Detail"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/orders/{id}/voice-call": {
            "post": {
                "description": "Creates a web call whose agent asks about the products of the order",
                "produces": ["application/json"],
                "tags": ["reviews"],
                "summary": "Start voice review call",
                "parameters": [
                    {"type": "integer", "description": "Order ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/voice.WebCall"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/products": {
            "get": {
                "description": "Catalog with per-product rating. Optional category filter.",
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "List products",
                "parameters": [
                    {"type": "string", "description": "coffee | equipment", "name": "category", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "array", "items": {"$ref": "#/definitions/main.productWithRating"}}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/products/{id}": {
            "get": {
                "description": "Product with its reviews and rating summary",
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Get product",
                "parameters": [
                    {"type": "integer", "description": "Product ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.productDetail"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/reviews": {
            "get": {
                "description": "Every review with customer and product, newest first",
                "produces": ["application/json"],
                "tags": ["reviews"],
                "summary": "All reviews",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "array", "items": {"$ref": "#/definitions/review.WithDetails"}}}}
                }
            }
        },
        "/api/webhooks/retell": {
            "post": {
                "description": "Receives call_ended and call_analyzed events",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["reviews"],
                "summary": "Voice webhook",
                "parameters": [
                    {"description": "Event", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/voice.Event"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "boolean"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "cart.Line": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "product_id": {"type": "integer"},
                "quantity": {"type": "integer"},
                "unit_price": {"type": "string", "example": "10.00"}
            }
        },
        "main.addToCartRequest": {
            "type": "object",
            "required": ["product_id"],
            "properties": {
                "product_id": {"type": "integer", "example": 3}
            }
        },
        "main.cartCheckoutRequest": {
            "type": "object",
            "properties": {
                "customer_email": {"type": "string", "example": "jane@example.com"},
                "customer_name": {"type": "string", "example": "Jane Doe"}
            }
        },
        "main.cartView": {
            "type": "object",
            "properties": {
                "item_count": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/cart.Line"}},
                "total": {"type": "string", "example": "25.00"}
            }
        },
        "main.productDetail": {
            "type": "object",
            "properties": {
                "average_rating": {"type": "number"},
                "product": {"$ref": "#/definitions/product.Product"},
                "review_count": {"type": "integer"},
                "reviews": {"type": "array", "items": {"$ref": "#/definitions/review.WithDetails"}},
                "stars": {"type": "integer"}
            }
        },
        "main.productWithRating": {
            "type": "object",
            "properties": {
                "average_rating": {"type": "number"},
                "category": {"type": "string"},
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "integer"},
                "image_url": {"type": "string"},
                "name": {"type": "string"},
                "origin": {"type": "string"},
                "price": {"type": "string", "example": "18.99"},
                "review_count": {"type": "integer"},
                "roast": {"type": "string"},
                "stars": {"type": "integer"}
            }
        },
        "main.updateQuantityRequest": {
            "type": "object",
            "required": ["quantity"],
            "properties": {
                "quantity": {"type": "integer", "example": 2}
            }
        },
        "order.CheckoutItem": {
            "type": "object",
            "properties": {
                "price": {"type": "string", "example": "10.00"},
                "product_id": {"type": "integer", "example": 3},
                "quantity": {"type": "integer", "example": 2}
            }
        },
        "order.CheckoutRequest": {
            "type": "object",
            "properties": {
                "customer_email": {"type": "string", "example": "jane@example.com"},
                "customer_name": {"type": "string", "example": "Jane Doe"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/order.CheckoutItem"}},
                "total_amount": {"type": "string", "example": "25.00"}
            }
        },
        "order.CheckoutResponse": {
            "type": "object",
            "properties": {
                "order_id": {"type": "integer", "example": 42}
            }
        },
        "order.Detail": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "customer_email": {"type": "string"},
                "customer_name": {"type": "string"},
                "id": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/order.ItemDetail"}},
                "status": {"type": "string"},
                "total_amount": {"type": "string", "example": "25.00"}
            }
        },
        "order.ItemDetail": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "order_id": {"type": "integer"},
                "price_at_purchase": {"type": "string", "example": "10.00"},
                "product_category": {"type": "string"},
                "product_id": {"type": "integer"},
                "product_name": {"type": "string"},
                "quantity": {"type": "integer"}
            }
        },
        "product.Product": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "integer"},
                "image_url": {"type": "string"},
                "name": {"type": "string"},
                "origin": {"type": "string"},
                "price": {"type": "string", "example": "18.99"},
                "roast": {"type": "string"}
            }
        },
        "review.WithDetails": {
            "type": "object",
            "properties": {
                "analysis_data": {"type": "object"},
                "call_id": {"type": "string"},
                "created_at": {"type": "string"},
                "customer_name": {"type": "string"},
                "id": {"type": "integer"},
                "order_id": {"type": "integer"},
                "product_category": {"type": "string"},
                "product_id": {"type": "integer"},
                "product_name": {"type": "string"},
                "summary": {"type": "string"},
                "transcript": {"type": "string"}
            }
        },
        "voice.Call": {
            "type": "object",
            "properties": {
                "call_analysis": {"$ref": "#/definitions/voice.CallAnalysis"},
                "call_id": {"type": "string"},
                "metadata": {"type": "object", "additionalProperties": true},
                "transcript": {"type": "string"}
            }
        },
        "voice.CallAnalysis": {
            "type": "object",
            "properties": {
                "call_successful": {"type": "boolean"},
                "call_summary": {"type": "string"},
                "custom_analysis_data": {"type": "object"}
            }
        },
        "voice.Event": {
            "type": "object",
            "properties": {
                "call": {"$ref": "#/definitions/voice.Call"},
                "event": {"type": "string"}
            }
        },
        "voice.WebCall": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "call_id": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Cafe Reviews API",
	Description:      "Coffee storefront with AI voice reviews.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
