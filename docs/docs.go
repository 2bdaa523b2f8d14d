// Package docs registers the OpenAPI description served at /swagger. It is
// maintained by hand alongside the handler annotations.
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
        "/api/v1/logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "SET, DELETE and TARGET_CHANGE events. Filter by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD').",
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List settings audit log",
                "parameters": [
                    {"type": "string", "example": "2025-08-01", "name": "from", "in": "query"},
                    {"type": "string", "example": "2025-08-31", "name": "to", "in": "query"},
                    {"enum": ["SET", "DELETE", "TARGET_CHANGE"], "type": "string", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, events", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/profiles": {
            "get": {
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "Get profiles",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ProfileSet"}}
                }
            }
        },
        "/api/v1/profiles/slider": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Sets the temperature of the point whose hour label matches exactly. Never inserts points.",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["text/plain"],
                "tags": ["profiles"],
                "summary": "Move a control point",
                "parameters": [
                    {"description": "Slider payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.SliderRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK or FAIL", "schema": {"type": "string"}}
                }
            }
        },
        "/api/v1/settings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "List stored settings",
                "responses": {
                    "200": {"description": "count, settings", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/v1/settings/refresh": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Reload settings from the store",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/settings/{key}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Get one setting",
                "parameters": [{"type": "string", "name": "key", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "key, enttype, value", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Create or modify a setting",
                "parameters": [
                    {"type": "string", "name": "key", "in": "path", "required": true},
                    {"description": "Typed value", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.SettingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Delete a setting",
                "parameters": [{"type": "string", "name": "key", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/temperature/actual": {
            "get": {
                "produces": ["application/json"],
                "tags": ["temperature"],
                "summary": "Last reported room temperature",
                "responses": {
                    "200": {"description": "temp, enttype", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "post": {
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["temperature"],
                "summary": "Report room temperature",
                "parameters": [{"type": "string", "name": "temp", "in": "formData", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/temperature/target": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["temperature"],
                "summary": "Target temperature now",
                "responses": {
                    "200": {"description": "e.g. 20.5", "schema": {"type": "string"}}
                }
            }
        },
        "/auth/sign-in": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/sign-up": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register an operator",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "integer"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "handlers.SettingRequest": {
            "type": "object",
            "required": ["enttype"],
            "properties": {
                "enttype": {"type": "string", "example": "float"},
                "value": {"type": "string", "example": "21.5"}
            }
        },
        "handlers.SliderRequest": {
            "type": "object",
            "required": ["hour", "profile", "temp"],
            "properties": {
                "hour": {"type": "string", "example": "6"},
                "profile": {"type": "string", "example": "weekdays"},
                "temp": {"type": "string", "example": "21.5"}
            }
        },
        "handlers.authCredentials": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "models.ProfileSet": {
            "type": "object",
            "properties": {
                "weekdays": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}},
                "weekends": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Thermostat API",
	Description:      "Programmable thermostat: day profiles, target temperature and settings administration.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
