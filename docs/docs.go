// Package docs registers the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "description": "Every post, newest first, 10 per page",
                "produces": ["application/json"],
                "tags": ["feeds"],
                "summary": "Global feed",
                "parameters": [
                    {"type": "integer", "description": "1-based page number", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.FeedPage"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Create post",
                "parameters": [
                    {
                        "description": "Post content, at most 600 characters",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object", "properties": {"content": {"type": "string"}}}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Post"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/following": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Posts by the users the caller follows, newest first",
                "produces": ["application/json"],
                "tags": ["feeds"],
                "summary": "Following feed",
                "parameters": [
                    {"type": "integer", "description": "1-based page number", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.FeedPage"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "description": "Authenticate by username and password and return a JWT",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
                        }
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.TokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Revoke the presented token until it expires",
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"message": {"type": "string"}}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/post": {
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Replaces the content when editedpost is set (author only) and toggles the caller's like when clicked is true.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Edit or like a post",
                "parameters": [
                    {
                        "description": "Update",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "post_id": {"type": "integer"},
                                "editedpost": {"type": "string"},
                                "clicked": {"type": "boolean"}
                            }
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "type": "object",
                            "properties": {"message": {"type": "string"}, "likes_number": {"type": "string"}}
                        }
                    },
                    "400": {"description": "Bad Request", "schema": {"type": "object", "properties": {"error": {"type": "string"}}}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "properties": {"error": {"type": "string"}}}}
                }
            }
        },
        "/post/{id}": {
            "get": {
                "description": "A post with its like count and the users who like it",
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Get post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.PostDetail"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["posts"],
                "summary": "Delete post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/profile/{username}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Profile feed, follow counts, avatar and whether the caller follows the user",
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "User profile",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "path", "required": true},
                    {"type": "integer", "description": "1-based page number", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.ProfileView"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "With action=follow|unfollow the caller follows or unfollows the user.\nOn the caller's own profile a multipart \"image\" file replaces the avatar.",
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "Follow, unfollow or upload an avatar",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "path", "required": true},
                    {"type": "string", "description": "follow or unfollow", "name": "action", "in": "formData"},
                    {"type": "file", "description": "Avatar image (own profile only)", "name": "image", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/register": {
            "post": {
                "description": "Create an account with a default profile and return a JWT",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register",
                "parameters": [
                    {
                        "description": "Registration form",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "username": {"type": "string"},
                                "email": {"type": "string"},
                                "password": {"type": "string"},
                                "confirmation": {"type": "string"}
                            }
                        }
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/server.TokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users/me": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Removes the caller with their profile, posts, likes and follow edges",
                "tags": ["users"],
                "summary": "Delete account",
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "models.FollowCounts": {
            "type": "object",
            "properties": {
                "followers": {"type": "integer"},
                "following": {"type": "integer"}
            }
        },
        "models.Post": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "content": {"type": "string"},
                "user_id": {"type": "integer"},
                "author": {"type": "string"},
                "likes_count": {"type": "integer"},
                "liked": {"type": "boolean"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "models.UserSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"}
            }
        },
        "server.PostDetail": {
            "type": "object",
            "properties": {
                "likers": {"type": "array", "items": {"$ref": "#/definitions/models.UserSummary"}},
                "post": {"$ref": "#/definitions/models.Post"}
            }
        },
        "server.TokenResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/models.User"}
            }
        },
        "service.FeedPage": {
            "type": "object",
            "properties": {
                "posts": {"type": "array", "items": {"$ref": "#/definitions/models.Post"}},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "num_pages": {"type": "integer"},
                "total": {"type": "integer"},
                "has_next": {"type": "boolean"},
                "has_previous": {"type": "boolean"}
            }
        },
        "service.ProfileView": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/models.UserSummary"},
                "image": {"type": "string"},
                "counts": {"$ref": "#/definitions/models.FollowCounts"},
                "is_following": {"type": "boolean"},
                "is_self": {"type": "boolean"},
                "feed": {"$ref": "#/definitions/service.FeedPage"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Network API",
	Description:      "Minimal social network: follow graph, posts with likes, global, profile and following feeds.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
