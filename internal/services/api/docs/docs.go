// Package docs holds the OpenAPI document served by the Swagger UI
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.0.3",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/sync": {
            "get": {
                "tags": [
                    "Sync"
                ],
                "summary": "Run or queue a chat sync",
                "operationId": "sync",
                "parameters": [
                    {
                        "name": "background",
                        "in": "query",
                        "required": false,
                        "description": "Queue the sync and return a job id",
                        "schema": {
                            "type": "boolean"
                        }
                    },
                    {
                        "name": "job_id",
                        "in": "query",
                        "required": false,
                        "description": "Run a queued job",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "days",
                        "in": "query",
                        "required": false,
                        "description": "Sync the last N days (1..90)",
                        "schema": {
                            "type": "integer"
                        }
                    },
                    {
                        "name": "start_date",
                        "in": "query",
                        "required": false,
                        "description": "Window start (RFC3339 or YYYY-MM-DD)",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "end_date",
                        "in": "query",
                        "required": false,
                        "description": "Window end",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Sync result, or the queued job when background=true",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "oneOf": [
                                        {
                                            "$ref": "#/components/schemas/SyncResult"
                                        },
                                        {
                                            "$ref": "#/components/schemas/SyncCreated"
                                        }
                                    ]
                                }
                            }
                        }
                    },
                    "409": {
                        "description": "Job is not pending",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/SyncFailure"
                                }
                            }
                        }
                    },
                    "500": {
                        "description": "Pipeline failed",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/SyncFailure"
                                }
                            }
                        }
                    }
                }
            }
        },
        "/sync/jobs": {
            "get": {
                "tags": [
                    "Sync"
                ],
                "summary": "List recent sync jobs",
                "operationId": "listSyncJobs",
                "parameters": [
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Max jobs (1..100, default 20)",
                        "schema": {
                            "type": "integer"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/Envelope"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "type": "array",
                                                    "items": {
                                                        "$ref": "#/components/schemas/SyncJob"
                                                    }
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    }
                }
            }
        },
        "/sync/jobs/{id}": {
            "get": {
                "tags": [
                    "Sync"
                ],
                "summary": "Get a sync job",
                "operationId": "getSyncJob",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Job id",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/Envelope"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/SyncJob"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/ErrorResponse"
                                }
                            }
                        }
                    }
                }
            }
        },
        "/analysis/{id}": {
            "get": {
                "tags": [
                    "Analysis"
                ],
                "summary": "Get the analysis of a thread",
                "operationId": "getAnalysis",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Thread id",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/Envelope"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/Analysis"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/ErrorResponse"
                                }
                            }
                        }
                    }
                }
            }
        },
        "/meta/health": {
            "get": {
                "tags": [
                    "Meta"
                ],
                "summary": "Liveness",
                "operationId": "metaHealth",
                "responses": {
                    "200": {
                        "description": "OK",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/Envelope"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/Health"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    }
                }
            }
        },
        "/meta/ready": {
            "get": {
                "tags": [
                    "Meta"
                ],
                "summary": "Readiness with dependency checks",
                "operationId": "metaReady",
                "responses": {
                    "200": {
                        "description": "OK",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/Envelope"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/Ready"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    },
                    "503": {
                        "description": "A dependency failed",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/Envelope"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/Ready"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    }
                }
            }
        },
        "/meta/version": {
            "get": {
                "tags": [
                    "Meta"
                ],
                "summary": "Build information",
                "operationId": "metaVersion",
                "responses": {
                    "200": {
                        "description": "OK",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/Envelope"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/BuildInfo"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    }
                }
            }
        }
    },
    "components": {
        "schemas": {
            "Envelope": {
                "type": "object",
                "properties": {
                    "status_code": {
                        "type": "integer"
                    },
                    "status": {
                        "type": "string"
                    },
                    "request_id": {
                        "type": "string"
                    },
                    "data": {}
                }
            },
            "ErrorResponse": {
                "type": "object",
                "properties": {
                    "status_code": {
                        "type": "integer"
                    },
                    "status": {
                        "type": "string"
                    },
                    "code": {
                        "type": "string",
                        "example": "not_found"
                    },
                    "error": {
                        "type": "string"
                    },
                    "request_id": {
                        "type": "string"
                    }
                },
                "required": [
                    "status_code",
                    "status"
                ]
            },
            "SyncResult": {
                "type": "object",
                "properties": {
                    "synced": {
                        "type": "integer"
                    },
                    "new_chats": {
                        "type": "integer"
                    },
                    "analyzed": {
                        "type": "integer"
                    },
                    "alerts_sent": {
                        "type": "integer"
                    },
                    "skipped": {
                        "type": "integer"
                    },
                    "total_chats": {
                        "type": "integer"
                    },
                    "total_analyzed": {
                        "type": "integer"
                    },
                    "success": {
                        "type": "boolean"
                    },
                    "timestamp": {
                        "type": "string",
                        "example": "2024-01-01T12:00:00.000Z"
                    },
                    "timestamp_istanbul": {
                        "type": "string",
                        "example": "01.01.2024 15:00:00"
                    }
                }
            },
            "SyncCreated": {
                "type": "object",
                "properties": {
                    "success": {
                        "type": "boolean"
                    },
                    "job_id": {
                        "type": "string",
                        "format": "uuid"
                    },
                    "status": {
                        "type": "string",
                        "example": "pending"
                    }
                }
            },
            "SyncFailure": {
                "type": "object",
                "properties": {
                    "success": {
                        "type": "boolean",
                        "example": false
                    },
                    "error": {
                        "type": "string"
                    }
                }
            },
            "SyncJob": {
                "type": "object",
                "properties": {
                    "id": {
                        "type": "string",
                        "format": "uuid"
                    },
                    "status": {
                        "type": "string",
                        "enum": [
                            "pending",
                            "processing",
                            "completed",
                            "failed"
                        ]
                    },
                    "trigger": {
                        "type": "string",
                        "enum": [
                            "http",
                            "schedule",
                            "cli"
                        ]
                    },
                    "start_date": {
                        "type": "string",
                        "format": "date-time"
                    },
                    "end_date": {
                        "type": "string",
                        "format": "date-time"
                    },
                    "days": {
                        "type": "integer"
                    },
                    "created_at": {
                        "type": "string",
                        "format": "date-time"
                    },
                    "started_at": {
                        "type": "string",
                        "format": "date-time"
                    },
                    "completed_at": {
                        "type": "string",
                        "format": "date-time"
                    },
                    "result": {
                        "$ref": "#/components/schemas/SyncResult"
                    },
                    "error": {
                        "type": "string"
                    }
                }
            },
            "Analysis": {
                "type": "object",
                "properties": {
                    "id": {
                        "type": "integer"
                    },
                    "chat_id": {
                        "type": "string"
                    },
                    "overall_score": {
                        "type": "integer",
                        "minimum": 0,
                        "maximum": 100
                    },
                    "sentiment": {
                        "type": "string",
                        "enum": [
                            "positive",
                            "neutral",
                            "negative"
                        ]
                    },
                    "summary": {
                        "type": "string"
                    },
                    "issues": {
                        "type": "array",
                        "items": {
                            "type": "string"
                        }
                    },
                    "model": {
                        "type": "string"
                    },
                    "created_at": {
                        "type": "string",
                        "format": "date-time"
                    }
                }
            },
            "Health": {
                "type": "object",
                "properties": {
                    "ok": {
                        "type": "boolean"
                    },
                    "service": {
                        "type": "string"
                    },
                    "started": {
                        "type": "string"
                    },
                    "now": {
                        "type": "string"
                    }
                }
            },
            "Ready": {
                "type": "object",
                "properties": {
                    "status": {
                        "type": "string",
                        "enum": [
                            "ok",
                            "degraded",
                            "fail"
                        ]
                    },
                    "checks": {
                        "type": "array",
                        "items": {
                            "type": "object",
                            "properties": {
                                "name": {
                                    "type": "string"
                                },
                                "status": {
                                    "type": "string"
                                },
                                "error": {
                                    "type": "string"
                                }
                            }
                        }
                    },
                    "now": {
                        "type": "string"
                    }
                }
            },
            "BuildInfo": {
                "type": "object",
                "properties": {
                    "service": {
                        "type": "string"
                    },
                    "version": {
                        "type": "string"
                    },
                    "commit": {
                        "type": "string"
                    },
                    "date": {
                        "type": "string"
                    },
                    "go": {
                        "type": "string"
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "livetakip API",
	Description:      "Chat sync, job polling and analysis endpoints.",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
