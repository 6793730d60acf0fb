// Package roster holds the OpenAPI document for the directory service, served
// at /swagger/. It mirrors the swag annotations in internal/directory/http;
// regenerate with `swag init -g internal/directory/http/router.go -o api/roster`.
package roster

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/roster"
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
                "description": "Liveness probe returning status, uptime and version. Always 200 while the process is serving.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Health"
                ],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version",
                        "schema": {
                            "$ref": "#/definitions/rostersdk.HealthResponse"
                        }
                    }
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Readiness probe that pings the account store.\nAnswers 503 with status degraded when the store cannot be reached.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Health"
                ],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version, checks",
                        "schema": {
                            "$ref": "#/definitions/rostersdk.HealthResponse"
                        }
                    },
                    "503": {
                        "description": "status, uptime, version, checks - store unreachable",
                        "schema": {
                            "$ref": "#/definitions/rostersdk.HealthResponse"
                        }
                    }
                }
            }
        },
        "/v1/accounts": {
            "get": {
                "description": "Returns every account, newest first, without secrets.\nWithout an active session it answers login_required so the caller can send the user to log in.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Accounts"
                ],
                "summary": "List Accounts Endpoint",
                "responses": {
                    "200": {
                        "description": "accounts",
                        "schema": {
                            "$ref": "#/definitions/rostersdk.AccountListResponse"
                        }
                    },
                    "401": {
                        "description": "No active session",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorBody"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorBody"
                        }
                    }
                }
            },
            "post": {
                "description": "Creates an account. Name and email are trimmed, the secret is stored as sent.\nEmails are unique ignoring case. Does not start a session.",
                "consumes": [
                    "application/x-www-form-urlencoded"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Accounts"
                ],
                "summary": "Register Account Endpoint",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Display name",
                        "name": "name",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Email, unique ignoring case",
                        "name": "email",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Secret, compared exactly",
                        "name": "secret",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "id, name, email, created_at",
                        "schema": {
                            "$ref": "#/definitions/rostersdk.AccountResponse"
                        }
                    },
                    "400": {
                        "description": "Missing field",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorBody"
                        }
                    },
                    "409": {
                        "description": "Email already registered",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorBody"
                        }
                    },
                    "429": {
                        "description": "Rate limit exceeded",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorBody"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorBody"
                        }
                    }
                }
            }
        },
        "/v1/session": {
            "get": {
                "description": "Describes the current session. Account and started_at are only present while authenticated.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Session"
                ],
                "summary": "Session Endpoint",
                "responses": {
                    "200": {
                        "description": "authenticated, account, started_at",
                        "schema": {
                            "$ref": "#/definitions/rostersdk.SessionResponse"
                        }
                    }
                }
            },
            "post": {
                "description": "Starts the shared session for the account matching email (ignoring case) and secret (exactly).\nA failed attempt leaves whatever session was active in place.",
                "consumes": [
                    "application/x-www-form-urlencoded"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Session"
                ],
                "summary": "Login Endpoint",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Account email",
                        "name": "email",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Account secret",
                        "name": "secret",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "authenticated, account, started_at",
                        "schema": {
                            "$ref": "#/definitions/rostersdk.SessionResponse"
                        }
                    },
                    "400": {
                        "description": "Missing field",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorBody"
                        }
                    },
                    "401": {
                        "description": "Invalid email or secret",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorBody"
                        }
                    },
                    "429": {
                        "description": "Rate limit exceeded",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorBody"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorBody"
                        }
                    }
                }
            },
            "delete": {
                "description": "Ends the session. It always succeeds, even when nobody is logged in.",
                "tags": [
                    "Session"
                ],
                "summary": "Logout Endpoint",
                "responses": {
                    "204": {
                        "description": "Session ended"
                    }
                }
            }
        }
    },
    "definitions": {
        "httpx.ErrorBody": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string"
                },
                "error_description": {
                    "type": "string"
                }
            }
        },
        "rostersdk.AccountListResponse": {
            "type": "object",
            "properties": {
                "accounts": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/rostersdk.AccountResponse"
                    }
                }
            }
        },
        "rostersdk.AccountResponse": {
            "type": "object",
            "properties": {
                "created_at": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                }
            }
        },
        "rostersdk.HealthChecks": {
            "type": "object",
            "properties": {
                "store": {
                    "type": "string"
                }
            }
        },
        "rostersdk.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {
                    "$ref": "#/definitions/rostersdk.HealthChecks"
                },
                "status": {
                    "type": "string"
                },
                "uptime": {
                    "type": "string"
                },
                "version": {
                    "type": "string"
                }
            }
        },
        "rostersdk.SessionResponse": {
            "type": "object",
            "properties": {
                "account": {
                    "$ref": "#/definitions/rostersdk.AccountResponse"
                },
                "authenticated": {
                    "type": "boolean"
                },
                "started_at": {
                    "type": "string"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Roster Directory Service API",
	Description:      "Account directory with a single shared session. Requests are form encoded, responses are JSON. Errors carry error and error_description.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
