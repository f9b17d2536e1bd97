// Package docs registers the OpenAPI document served under /swagger. Keep
// it in step with the handlers in internal/http.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/guttosm/agentflow"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/workflows": {
            "get": {
                "tags": ["Workflows"],
                "summary": "List workflows by owner",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "owner", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "400": {"description": "Missing owner", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "Unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["Workflows"],
                "summary": "Create a workflow",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "Idempotency-Key", "in": "header"},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateWorkflowRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "400": {"description": "Invalid body", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/workflows/{id}": {
            "get": {
                "tags": ["Workflows"],
                "summary": "Get a workflow",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "Unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "put": {
                "tags": ["Workflows"],
                "summary": "Update a workflow",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateWorkflowRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Workflows"],
                "summary": "Delete a workflow",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/agents": {
            "get": {
                "tags": ["Agents"],
                "summary": "List agents by owner",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "owner", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "400": {"description": "Missing owner", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["Agents"],
                "summary": "Create an agent",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "Idempotency-Key", "in": "header"},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateAgentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "400": {"description": "Invalid body", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/agents/{id}": {
            "get": {
                "tags": ["Agents"],
                "summary": "Get an agent",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "put": {
                "tags": ["Agents"],
                "summary": "Update an agent",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateAgentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Agents"],
                "summary": "Delete an agent",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/cache/{namespace}": {
            "delete": {
                "tags": ["Cache"],
                "summary": "Invalidate cached keys matching a glob",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "namespace", "in": "path", "required": true},
                    {"type": "string", "name": "pattern", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Invalidated", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "400": {"description": "Missing pattern", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Unknown namespace", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "Store unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "tags": ["Health"],
                "summary": "Liveness",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/readyz": {
            "get": {
                "tags": ["Health"],
                "summary": "Readiness with store, database and circuit breaker checks",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "A dependency is unhealthy"}
                }
            }
        }
    },
    "definitions": {
        "dto.CreateWorkflowRequest": {
            "type": "object",
            "required": ["name", "owner"],
            "properties": {
                "name": {"type": "string", "maxLength": 200},
                "owner": {"type": "string", "maxLength": 100},
                "status": {"type": "string", "enum": ["draft", "active", "paused", "archived"]},
                "config": {"type": "object", "additionalProperties": true},
                "webhook_url": {"type": "string"}
            }
        },
        "dto.UpdateWorkflowRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "maxLength": 200},
                "status": {"type": "string", "enum": ["draft", "active", "paused", "archived"]},
                "config": {"type": "object", "additionalProperties": true},
                "webhook_url": {"type": "string"}
            }
        },
        "dto.CreateAgentRequest": {
            "type": "object",
            "required": ["name", "type", "owner", "config"],
            "properties": {
                "name": {"type": "string", "maxLength": 200},
                "type": {"type": "string", "maxLength": 50},
                "owner": {"type": "string", "maxLength": 100},
                "config": {"type": "object", "additionalProperties": true}
            }
        },
        "dto.UpdateAgentRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "maxLength": 200},
                "type": {"type": "string", "maxLength": 50},
                "config": {"type": "object", "additionalProperties": true}
            }
        },
        "dto.SuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "request_id": {"type": "string"},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}},
                "request_id": {"type": "string"},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        }
    },
    "tags": [
        {"name": "Workflows", "description": "Workflow records served through the cache"},
        {"name": "Agents", "description": "Agent records served through the cache"},
        {"name": "Cache", "description": "Operator cache invalidation"},
        {"name": "Health", "description": "Health check endpoints"}
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "agentflow API",
	Description:      "Workflow and agent records behind a tiered stale-while-revalidate cache.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
