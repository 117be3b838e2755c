// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with `swag init -g internal/api/server.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/authorize": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange operator credentials for an authorization code",
                "parameters": [{"in": "body", "name": "credentials", "required": true, "schema": {"$ref": "#/definitions/dto.AuthorizeRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AuthorizeResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/auth/token": {
            "post": {
                "tags": ["auth"],
                "summary": "Issue an access token",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.TokenRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/clients": {
            "get": {
                "tags": ["clients"],
                "summary": "List clients",
                "parameters": [
                    {"type": "string", "in": "query", "name": "query", "description": "Filters, e.g. lname|Bono"},
                    {"type": "string", "in": "query", "name": "order", "description": "Ordering, e.g. fname|asc"},
                    {"type": "integer", "in": "query", "name": "page"},
                    {"type": "integer", "in": "query", "name": "per_page"}
                ],
                "description": "Returns a bare array unless page or per_page is given, in which case\nthe array is wrapped with pagination info (dto.ClientListResponse).",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.ClientResponse"}},
                        "headers": {"X-Total-Count": {"type": "integer", "description": "Number of matching clients"}}
                    }
                }
            },
            "post": {
                "tags": ["clients"],
                "summary": "Create a client",
                "parameters": [{"in": "body", "name": "client", "required": true, "schema": {"$ref": "#/definitions/dto.ClientRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.ClientResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/clients/{id}": {
            "get": {
                "tags": ["clients"],
                "summary": "Get a client",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ClientResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "put": {
                "tags": ["clients"],
                "summary": "Replace a client",
                "parameters": [
                    {"type": "string", "in": "path", "name": "id", "required": true},
                    {"in": "body", "name": "client", "required": true, "schema": {"$ref": "#/definitions/dto.ClientRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ClientUpdateResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["clients"],
                "summary": "Delete a client",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {
                    "205": {"description": "Reset Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/clients/{id}/accounts": {
            "get": {
                "tags": ["accounts"],
                "summary": "List a client's accounts, optionally by balance range",
                "parameters": [
                    {"type": "string", "in": "path", "name": "id", "required": true},
                    {"type": "number", "in": "query", "name": "amountGreaterThan"},
                    {"type": "number", "in": "query", "name": "amountLessThan"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.AccountResponse"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["accounts"],
                "summary": "Add an account to a client",
                "parameters": [
                    {"type": "string", "in": "path", "name": "id", "required": true},
                    {"in": "body", "name": "account", "required": true, "schema": {"$ref": "#/definitions/dto.AccountRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.ClientResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/clients/{id}/accounts/{name}/deposit": {
            "patch": {
                "tags": ["accounts"],
                "summary": "Deposit into every account with the given name",
                "parameters": [
                    {"type": "string", "in": "path", "name": "id", "required": true},
                    {"type": "string", "in": "path", "name": "name", "required": true},
                    {"in": "body", "name": "amount", "required": true, "schema": {"$ref": "#/definitions/dto.AmountRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.BalanceChangeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/clients/{id}/accounts/{name}/withdraw": {
            "patch": {
                "tags": ["accounts"],
                "summary": "Withdraw from every account with the given name",
                "parameters": [
                    {"type": "string", "in": "path", "name": "id", "required": true},
                    {"type": "string", "in": "path", "name": "name", "required": true},
                    {"in": "body", "name": "amount", "required": true, "schema": {"$ref": "#/definitions/dto.AmountRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.BalanceChangeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "402": {"description": "Payment Required", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/clients/{id}/ledger": {
            "get": {
                "tags": ["accounts"],
                "summary": "List a client's ledger entries",
                "parameters": [
                    {"type": "string", "in": "path", "name": "id", "required": true},
                    {"type": "string", "in": "query", "name": "query"},
                    {"type": "string", "in": "query", "name": "order"},
                    {"type": "integer", "in": "query", "name": "page"},
                    {"type": "integer", "in": "query", "name": "per_page"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LedgerListResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/cleanup": {
            "post": {
                "tags": ["maintenance"],
                "summary": "Purge expired auth codes, idempotency records and old ledger entries",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CleanupResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.AccountRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {"name": {"type": "string"}, "amount": {"type": "number"}}
        },
        "dto.AccountResponse": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "amount": {"type": "number"}}
        },
        "dto.AmountRequest": {
            "type": "object",
            "required": ["amount"],
            "properties": {"amount": {"type": "number"}}
        },
        "dto.AuthorizeRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "dto.AuthorizeResponse": {
            "type": "object",
            "properties": {"code": {"type": "string"}}
        },
        "dto.BalanceChangeResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "matched": {"type": "integer"},
                "client": {"$ref": "#/definitions/dto.ClientResponse"}
            }
        },
        "dto.CleanupResponse": {
            "type": "object",
            "properties": {
                "auth_codes": {"type": "integer"},
                "idempotency_records": {"type": "integer"},
                "ledger_entries": {"type": "integer"}
            }
        },
        "dto.ClientListResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/dto.ClientResponse"}},
                "pagination": {"$ref": "#/definitions/dto.PaginationInfo"}
            }
        },
        "dto.ClientRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "fname": {"type": "string"},
                "lname": {"type": "string"},
                "account": {"type": "array", "items": {"$ref": "#/definitions/dto.AccountRequest"}},
                "version": {"type": "integer"}
            }
        },
        "dto.ClientResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "fname": {"type": "string"},
                "lname": {"type": "string"},
                "account": {"type": "array", "items": {"$ref": "#/definitions/dto.AccountResponse"}},
                "version": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "dto.ClientUpdateResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "client": {"$ref": "#/definitions/dto.ClientResponse"}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "code": {"type": "integer"}
            }
        },
        "dto.LedgerEntryResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "account_name": {"type": "string"},
                "type": {"type": "string"},
                "amount": {"type": "number"},
                "balance_after": {"type": "number"},
                "created_at": {"type": "string"}
            }
        },
        "dto.LedgerListResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/dto.LedgerEntryResponse"}},
                "pagination": {"$ref": "#/definitions/dto.PaginationInfo"}
            }
        },
        "dto.PaginationInfo": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "per_page": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "dto.TokenRequest": {
            "type": "object",
            "required": ["grant_type"],
            "properties": {
                "grant_type": {"type": "string"},
                "code": {"type": "string"},
                "client_id": {"type": "string"},
                "client_secret": {"type": "string"}
            }
        },
        "dto.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string"},
                "expires_in": {"type": "integer"}
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
	Title:            "Banking API",
	Description:      "Clients, named accounts and balance changes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
