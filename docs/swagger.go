// Package docs holds the OpenAPI description of the pibdash HTTP API served
// under /swagger.
package docs

import "github.com/swaggo/swag"

// @title PIB Press Release Dashboard API
// @version 1.0
// @description Filter, aggregate and browse the PIB press release dataset
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "PIB Press Release Dashboard API",
	Description:      "Filter, aggregate and browse the PIB press release dataset",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        }
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "consumes": ["application/json"],
    "produces": ["application/json"],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health Check",
                "operationId": "healthCheck",
                "responses": {
                    "200": {
                        "description": "Service is healthy",
                        "schema": {
                            "type": "object",
                            "properties": {
                                "status": {"type": "string", "example": "healthy"},
                                "service": {"type": "string", "example": "pibdash"},
                                "rows": {"type": "integer", "description": "Rows in the loaded dataset"},
                                "skipped": {"type": "integer", "description": "Rows dropped for unparseable dates"},
                                "sessions": {"type": "integer", "description": "Live sessions"}
                            }
                        }
                    }
                }
            }
        },
        "/api/v1/choices": {
            "get": {
                "tags": ["Filters"],
                "summary": "Selectable filter values",
                "operationId": "getChoices",
                "responses": {
                    "200": {"description": "Years, ministries and granularities", "schema": {"$ref": "#/definitions/Choices"}}
                }
            }
        },
        "/api/v1/filters": {
            "get": {
                "tags": ["Filters"],
                "summary": "Current filter state of the session",
                "operationId": "getFilters",
                "responses": {
                    "200": {"description": "Filter state", "schema": {"$ref": "#/definitions/FilterState"}}
                }
            },
            "put": {
                "tags": ["Filters"],
                "summary": "Replace the filter state of the session",
                "description": "An empty ministries list selects all ministries. An omitted aggregation keeps the current one.",
                "operationId": "updateFilters",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FilterState"}}
                ],
                "responses": {
                    "200": {"description": "Stored filter state", "schema": {"$ref": "#/definitions/FilterState"}},
                    "400": {"description": "Malformed body, unknown aggregation or keyword too long", "schema": {"$ref": "#/definitions/Error"}},
                    "413": {"description": "Request body too large", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/v1/filters/reset": {
            "post": {
                "tags": ["Filters"],
                "summary": "Reset the session to the default filter state",
                "operationId": "resetFilters",
                "responses": {
                    "200": {"description": "Default filter state", "schema": {"$ref": "#/definitions/FilterState"}}
                }
            }
        },
        "/api/v1/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Summary, series and table in one snapshot",
                "operationId": "getDashboard",
                "responses": {
                    "200": {"description": "Dashboard view", "schema": {"$ref": "#/definitions/DashboardView"}},
                    "422": {"description": "No year selected", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/v1/summary": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Summary counters and cards",
                "operationId": "getSummary",
                "responses": {
                    "200": {
                        "description": "Summary",
                        "schema": {
                            "type": "object",
                            "properties": {
                                "summary": {"$ref": "#/definitions/Summary"},
                                "cards": {"type": "array", "items": {"$ref": "#/definitions/SummaryCard"}}
                            }
                        }
                    },
                    "422": {"description": "No year selected", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/v1/series": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Trend series",
                "operationId": "getSeries",
                "parameters": [
                    {"name": "aggregation", "in": "query", "required": false, "type": "string", "enum": ["daily", "monthly", "yearly"], "description": "One-off override of the session aggregation"}
                ],
                "responses": {
                    "200": {
                        "description": "Buckets in ascending order",
                        "schema": {
                            "type": "object",
                            "properties": {
                                "aggregation": {"type": "string"},
                                "series": {"type": "array", "items": {"$ref": "#/definitions/AggregatedBucket"}},
                                "count": {"type": "integer", "description": "Number of buckets"},
                                "total": {"type": "integer", "description": "Sum of the bucket counts"}
                            }
                        }
                    },
                    "400": {"description": "Unknown aggregation", "schema": {"$ref": "#/definitions/Error"}},
                    "422": {"description": "No year selected", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/v1/table": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Paged table of the filtered press releases",
                "operationId": "getTable",
                "parameters": [
                    {"name": "$search", "in": "query", "required": false, "type": "string", "description": "Comma separated terms, any of which must appear in a column"},
                    {"name": "$filter", "in": "query", "required": false, "type": "string", "description": "Column filter, e.g. contains(title, 'rail') and date ge '2023-01-01'"},
                    {"name": "$orderby", "in": "query", "required": false, "type": "string", "description": "e.g. date desc, title"},
                    {"name": "$top", "in": "query", "required": false, "type": "integer"},
                    {"name": "$skip", "in": "query", "required": false, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Table page", "schema": {"$ref": "#/definitions/TablePage"}},
                    "400": {"description": "Invalid query", "schema": {"$ref": "#/definitions/Error"}},
                    "422": {"description": "No year selected", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        }
    },
    "definitions": {
        "Error": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "Choices": {
            "type": "object",
            "properties": {
                "years": {"type": "array", "items": {"type": "integer"}},
                "ministries": {"type": "array", "items": {"type": "string"}},
                "granularities": {"type": "array", "items": {"type": "string"}}
            }
        },
        "FilterState": {
            "type": "object",
            "properties": {
                "years": {"type": "array", "items": {"type": "integer"}},
                "ministries": {"type": "array", "items": {"type": "string"}},
                "keyword": {"type": "string"},
                "aggregation": {"type": "string", "enum": ["daily", "monthly", "yearly"]}
            }
        },
        "Summary": {
            "type": "object",
            "properties": {
                "total_count": {"type": "integer"},
                "years_covered": {"type": "integer"},
                "ministries_covered": {"type": "integer"}
            }
        },
        "SummaryCard": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "icon": {"type": "string"},
                "value": {"type": "integer"},
                "display": {"type": "string"}
            }
        },
        "AggregatedBucket": {
            "type": "object",
            "properties": {
                "key": {"type": "string", "example": "2023-01"},
                "start": {"type": "string", "format": "date-time"},
                "count": {"type": "integer"}
            }
        },
        "TableRow": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "example": "2023-01-05"},
                "ministry": {"type": "string"},
                "title": {"type": "string"},
                "url": {"type": "string"},
                "link": {"type": "string", "description": "HTML anchor for url"}
            }
        },
        "TablePage": {
            "type": "object",
            "properties": {
                "total_records": {"type": "integer"},
                "filtered_records": {"type": "integer"},
                "rows": {"type": "array", "items": {"$ref": "#/definitions/TableRow"}}
            }
        },
        "DashboardView": {
            "type": "object",
            "properties": {
                "filters": {"$ref": "#/definitions/FilterState"},
                "summary": {"$ref": "#/definitions/Summary"},
                "cards": {"type": "array", "items": {"$ref": "#/definitions/SummaryCard"}},
                "series": {"type": "array", "items": {"$ref": "#/definitions/AggregatedBucket"}},
                "table": {"type": "array", "items": {"$ref": "#/definitions/TableRow"}}
            }
        }
    },
    "tags": [
        {"name": "Health", "description": "Health check endpoints"},
        {"name": "Filters", "description": "Per-session filter state"},
        {"name": "Dashboard", "description": "Projections of the filtered dataset"}
    ]
}`
