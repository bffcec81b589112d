// ABOUTME: Tests for session context propagation
// ABOUTME: Verifies WithSession/FromContext round trips and the empty case

package auth

import (
	"context"
	"testing"
)

func TestSessionContext(t *testing.T) {
	sess := &Session{Username: "ram"}
	ctx := WithSession(context.Background(), sess)

	got := FromContext(ctx)
	if got != sess {
		t.Fatalf("FromContext() = %v, want %v", got, sess)
	}
}

func TestFromContext_Missing(t *testing.T) {
	if got := FromContext(context.Background()); got != nil {
		t.Errorf("FromContext() = %v, want nil", got)
	}
}
