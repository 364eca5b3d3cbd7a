package branch

import (
	"context"

	"google.golang.org/grpc/metadata"
)

type ctxKey struct{}

// WithBranchID returns a context carrying the calling branch.
func WithBranchID(ctx context.Context, branchID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, branchID)
}

// GetBranchID returns the branch set by WithBranchID, falling back to the
// x-branch-id gRPC metadata. Empty when neither is present.
func GetBranchID(ctx context.Context) string {
	if val, ok := ctx.Value(ctxKey{}).(string); ok && val != "" {
		return val
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get("x-branch-id"); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}
