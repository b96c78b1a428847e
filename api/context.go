package api

import (
	"context"

	"github.com/rpupo63/portfolio-site/editor"
)

type keyType string

const workspaceKey keyType = "workspace"

func ctxWithWorkspace(ctx context.Context, w *editor.Workspace) context.Context {
	return context.WithValue(ctx, workspaceKey, w)
}

// ctxGetWorkspace returns the admin workspace set by the workspace middleware, or nil.
func ctxGetWorkspace(ctx context.Context) *editor.Workspace {
	w, _ := ctx.Value(workspaceKey).(*editor.Workspace)
	return w
}
