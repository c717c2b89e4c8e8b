package mcp

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/forzaops/registro/internal/domain/task"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Credentials hold the login gate values.
type Credentials struct {
	Username string
	Passcode string
}

// authMiddleware implements the login gate as MCP middleware. Every
// HTTP request must carry the fixed username and 6-digit passcode;
// a successful initialize is recorded in the activity log.
func authMiddleware(creds Credentials, actions task.ActionLogger) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Skip auth for protocol pings
			if method == "ping" {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("unauthorized: missing headers")
			}

			username := extra.Header.Get("X-Registro-Username")
			passcode := extra.Header.Get("X-Registro-Passcode")
			if !credentialsMatch(creds, username, passcode) {
				return nil, fmt.Errorf("unauthorized: invalid credentials")
			}

			if method == "initialize" && actions != nil {
				actions.LogAction(ctx, "Inicio de sesión exitoso.")
			}
			return next(ctx, method, req)
		}
	}
}

func credentialsMatch(creds Credentials, username, passcode string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(creds.Passcode), []byte(passcode)) == 1
	return userOK && passOK
}
