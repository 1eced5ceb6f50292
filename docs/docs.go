// Package docs holds the OpenAPI description served under /swagger/.
//
// Regenerate with: swag init -g cmd/vaani/main.go -o docs
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
        "/assistant": {
            "post": {
                "description": "Answers temperature questions that name a known city from the weather provider,\nand every other query from the chat completion backend under the language's persona.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "assistant"
                ],
                "summary": "Ask the assistant",
                "parameters": [
                    {
                        "description": "Query text and reply language",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/message.Request"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Assistant answer",
                        "schema": {
                            "$ref": "#/definitions/message.Response"
                        }
                    },
                    "400": {
                        "description": "Unsupported language",
                        "schema": {
                            "$ref": "#/definitions/message.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Malformed request body",
                        "schema": {
                            "$ref": "#/definitions/message.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Upstream or internal failure",
                        "schema": {
                            "$ref": "#/definitions/message.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/assistant/speech": {
            "post": {
                "description": "Same routing as /assistant; the answer is synthesized in the request language.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "audio/wav"
                ],
                "tags": [
                    "assistant"
                ],
                "summary": "Ask the assistant and hear the answer",
                "parameters": [
                    {
                        "description": "Query text and reply language",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/message.Request"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "WAV audio",
                        "schema": {
                            "type": "file"
                        },
                        "headers": {
                            "X-Sample-Rate": {
                                "type": "integer",
                                "description": "Sample rate in Hz"
                            },
                            "X-Vaani-Route": {
                                "type": "string",
                                "description": "weather or chat"
                            }
                        }
                    },
                    "400": {
                        "description": "Unsupported language",
                        "schema": {
                            "$ref": "#/definitions/message.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Malformed request body",
                        "schema": {
                            "$ref": "#/definitions/message.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Upstream or internal failure",
                        "schema": {
                            "$ref": "#/definitions/message.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Speech synthesis is disabled",
                        "schema": {
                            "$ref": "#/definitions/message.ErrorResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "message.ErrorResponse": {
            "type": "object",
            "properties": {
                "detail": {
                    "type": "string",
                    "example": "Unsupported language"
                }
            }
        },
        "message.Request": {
            "type": "object",
            "properties": {
                "language": {
                    "type": "string",
                    "example": "hindi"
                },
                "text": {
                    "type": "string",
                    "example": "What is taapmaan in Mumbai?"
                }
            }
        },
        "message.Response": {
            "type": "object",
            "properties": {
                "response": {
                    "type": "string",
                    "example": "Mumbai में तापमान 29.5°सेल्सियस है।"
                }
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
	Title:            "vaani API",
	Description:      "Multilingual assistant: live temperature answers for named cities, persona-primed chat for everything else.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
