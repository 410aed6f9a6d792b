// Package referral holds generated swagger docs. Regenerate with:
//
//	swag init -g internal/referral/http/router.go -o api/referral
package referral

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/referral"
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
        "/livez": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version", "schema": {"$ref": "#/definitions/referralsdk.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version, checks", "schema": {"$ref": "#/definitions/referralsdk.HealthResponse"}},
                    "503": {"description": "service not ready", "schema": {"$ref": "#/definitions/referralsdk.HealthResponse"}}
                }
            }
        },
        "/v1/referral/code": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Codes"],
                "summary": "Get Referral Code",
                "responses": {
                    "200": {"description": "code, is_active, use_count", "schema": {"$ref": "#/definitions/referralsdk.CodeResponse"}},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}},
                    "500": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Codes"],
                "summary": "Update Referral Code",
                "parameters": [
                    {"description": "Requested code value", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/referralsdk.UpdateCodeRequest"}}
                ],
                "responses": {
                    "200": {"description": "code, is_active, use_count", "schema": {"$ref": "#/definitions/referralsdk.CodeResponse"}},
                    "400": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}},
                    "409": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}},
                    "429": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}},
                    "500": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/referral/codes/availability": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Codes"],
                "summary": "Check Code Availability",
                "parameters": [
                    {"type": "string", "description": "Code value to check", "name": "code", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "code, available, reason", "schema": {"$ref": "#/definitions/referralsdk.AvailabilityResponse"}},
                    "400": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}},
                    "500": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/referral/codes/{code}/validate": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Codes"],
                "summary": "Validate Referral Code",
                "parameters": [
                    {"type": "string", "description": "Code value to validate", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "code, valid, reason", "schema": {"$ref": "#/definitions/referralsdk.ValidationResponse"}},
                    "429": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}},
                    "500": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/referral/referrals": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Referrals"],
                "summary": "List Referrals",
                "responses": {
                    "200": {"description": "referrals", "schema": {"$ref": "#/definitions/referralsdk.ReferralsResponse"}},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}},
                    "500": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/referral/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Referrals"],
                "summary": "Referral Statistics",
                "responses": {
                    "200": {"description": "total, pending, completed, rewarded", "schema": {"$ref": "#/definitions/referralsdk.StatsResponse"}},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}},
                    "500": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/internal/referral/attributions": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Internal"],
                "summary": "Attribute Signup",
                "parameters": [
                    {"description": "Referred account and code", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/referralsdk.AttributionRequest"}}
                ],
                "responses": {
                    "201": {"description": "id, referrer_id, referred_id, code, status", "schema": {"$ref": "#/definitions/referralsdk.AttributionResponse"}},
                    "400": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}},
                    "404": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}},
                    "409": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}},
                    "500": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/internal/referral/referrals/{id}/complete": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Internal"],
                "summary": "Complete Referral",
                "parameters": [
                    {"type": "string", "description": "Referral ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "id, status, completed_at", "schema": {"$ref": "#/definitions/referralsdk.ReferralResponse"}},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}},
                    "404": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}},
                    "500": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/internal/referral/referrals/{id}/reward": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Internal"],
                "summary": "Reward Referral",
                "parameters": [
                    {"type": "string", "description": "Referral ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "id, status, rewarded_at", "schema": {"$ref": "#/definitions/referralsdk.ReferralResponse"}},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}},
                    "404": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}},
                    "409": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}},
                    "500": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/internal/referral/codes/{owner}/deactivate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Internal"],
                "summary": "Deactivate Referral Code",
                "parameters": [
                    {"type": "string", "description": "Owner account ID", "name": "owner", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "code deactivated"},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}},
                    "404": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}},
                    "500": {"description": "error, error_description", "schema": {"$ref": "#/definitions/referralsdk.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "referralsdk.AttributionRequest": {
            "type": "object",
            "required": ["code", "referred_id"],
            "properties": {
                "code": {"type": "string"},
                "referred_id": {"type": "string"}
            }
        },
        "referralsdk.AttributionResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "referred_id": {"type": "string"},
                "referrer_id": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "referralsdk.AvailabilityResponse": {
            "type": "object",
            "properties": {
                "available": {"type": "boolean"},
                "code": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "referralsdk.CodeResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "created_at": {"type": "string"},
                "expires_at": {"type": "string"},
                "is_active": {"type": "boolean"},
                "max_uses": {"type": "integer"},
                "remaining": {"type": "integer"},
                "updated_at": {"type": "string"},
                "use_count": {"type": "integer"}
            }
        },
        "referralsdk.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "error_description": {"type": "string"}
            }
        },
        "referralsdk.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"type": "object"},
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "referralsdk.ReferralResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "completed_at": {"type": "string"},
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "referred_id": {"type": "string"},
                "rewarded_at": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "referralsdk.ReferralsResponse": {
            "type": "object",
            "properties": {
                "referrals": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/referralsdk.ReferralResponse"}
                }
            }
        },
        "referralsdk.StatsResponse": {
            "type": "object",
            "properties": {
                "completed": {"type": "integer"},
                "pending": {"type": "integer"},
                "rewarded": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "referralsdk.UpdateCodeRequest": {
            "type": "object",
            "required": ["code"],
            "properties": {
                "code": {"type": "string", "maxLength": 20, "minLength": 3}
            }
        },
        "referralsdk.ValidationResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "reason": {"type": "string"},
                "valid": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT access token or service token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "BarTab Referral Service API",
	Description:      "Referral code and attribution engine: per-account referral codes, signup attribution with atomic code consumption, and the PENDING/COMPLETED/REWARDED referral lifecycle.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
