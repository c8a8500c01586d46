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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        },
        "/api/products": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "List all products",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handlers.ProductResponse"}}}
                }
            },
            "post": {
                "description": "Adds a product to the inventory. Stock defaults to 0 and maxThreshold to 10.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Create a new product",
                "parameters": [
                    {"description": "Product to add", "name": "product", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ProductRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.ProductResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Get a product by ID",
                "parameters": [
                    {"type": "integer", "description": "Product ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ProductResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "put": {
                "description": "Applies only the supplied fields. Stock may be set above maxThreshold.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Update a product",
                "parameters": [
                    {"type": "integer", "description": "Product ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "product", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ProductRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ProductResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["products"],
                "summary": "Delete a product",
                "parameters": [
                    {"type": "integer", "description": "Product ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/products/{id}/movements": {
            "get": {
                "produces": ["application/json"],
                "tags": ["movements"],
                "summary": "Get product movement logs",
                "parameters": [
                    {"type": "integer", "description": "Product ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Filter movements from this timestamp (RFC3339)", "name": "since", "in": "query"},
                    {"type": "string", "description": "Filter movements until this timestamp (RFC3339)", "name": "until", "in": "query"},
                    {"type": "integer", "description": "Offset for pagination", "name": "offset", "in": "query"},
                    {"type": "integer", "description": "Limit for pagination", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MovementsSearchResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/products/{id}/movements/export": {
            "get": {
                "produces": ["text/csv", "application/json"],
                "tags": ["movements"],
                "summary": "Export product movement logs",
                "parameters": [
                    {"type": "integer", "description": "Product ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Export format (csv or json)", "name": "format", "in": "query", "required": true},
                    {"type": "string", "description": "Filter from timestamp (RFC3339)", "name": "since", "in": "query"},
                    {"type": "string", "description": "Filter until timestamp (RFC3339)", "name": "until", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/sim/start": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Idempotent. A running simulation keeps its pending tick.",
                "produces": ["application/json"],
                "tags": ["simulation"],
                "summary": "Start the stock simulation",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SimStartResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/sim/stop": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["simulation"],
                "summary": "Stop the stock simulation",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SimStopResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/sim/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["simulation"],
                "summary": "Simulation state and current products",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SimStatusResponse"}}
                }
            }
        },
        "/api/metrics/dashboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["metrics"],
                "summary": "Dashboard metrics over the store and movement journal",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/repo.Metrics"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {"ok": {"type": "boolean"}}
        },
        "handlers.ProductRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "stock": {"type": "integer"},
                "maxThreshold": {"type": "integer"}
            }
        },
        "handlers.ProductResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "stock": {"type": "integer"},
                "maxThreshold": {"type": "integer"}
            }
        },
        "handlers.SimStartResponse": {
            "type": "object",
            "properties": {
                "running": {"type": "boolean"},
                "nextRunAt": {"type": "integer"}
            }
        },
        "handlers.SimStopResponse": {
            "type": "object",
            "properties": {"running": {"type": "boolean"}}
        },
        "handlers.SimStatusResponse": {
            "type": "object",
            "properties": {
                "running": {"type": "boolean"},
                "nextRunAt": {"type": "integer"},
                "products": {"type": "array", "items": {"$ref": "#/definitions/handlers.ProductResponse"}}
            }
        },
        "handlers.MovementResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "productId": {"type": "integer"},
                "action": {"type": "string"},
                "delta": {"type": "integer"},
                "stockAfter": {"type": "integer"},
                "source": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "handlers.Meta": {
            "type": "object",
            "properties": {"total_count": {"type": "integer"}}
        },
        "handlers.MovementsSearchResult": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/handlers.MovementResponse"}},
                "meta": {"$ref": "#/definitions/handlers.Meta"}
            }
        },
        "repo.Metrics": {
            "type": "object",
            "properties": {
                "total_products": {"type": "integer"},
                "total_stock": {"type": "integer"},
                "total_movements": {"type": "integer"},
                "out_of_stock_count": {"type": "integer"},
                "at_capacity_count": {"type": "integer"},
                "most_moved_product": {
                    "type": "object",
                    "properties": {
                        "name": {"type": "string"},
                        "movement_count": {"type": "integer"}
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Inventory Simulator API",
	Description:      "In-memory inventory with a background stock simulation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
