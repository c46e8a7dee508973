package models

import (
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestUserDisplayName_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		user := &User{
			ID:        rapid.Int64().Draw(t, "id"),
			FirstName: rapid.String().Draw(t, "firstName"),
			Username:  rapid.String().Draw(t, "username"),
		}

		result := user.DisplayName()

		idStr := fmt.Sprintf("[%d]", user.ID)
		if !strings.HasSuffix(result, idStr) {
			t.Fatalf("DisplayName must end with user id: got %q, expected suffix %q", result, idStr)
		}
		if user.FirstName != "" && !strings.HasPrefix(result, user.FirstName) {
			t.Fatalf("DisplayName must start with first name when non-empty: got %q", result)
		}
		if user.Username != "" && !strings.Contains(result, "@"+user.Username) {
			t.Fatalf("DisplayName must contain @username when non-empty: got %q", result)
		}
	})
}

func TestUserRoles(t *testing.T) {
	child := &User{ID: 10, ParentID: 1}
	parent := &User{ID: 1, IsParent: true}

	if !child.IsChild() || parent.IsChild() {
		t.Fatalf("role flags mixed up: child=%v parent=%v", child.IsChild(), parent.IsChild())
	}
	if !child.HasParent(1) {
		t.Error("child should be linked to parent 1")
	}
	if child.HasParent(2) {
		t.Error("child must not be linked to parent 2")
	}
	if (&User{ID: 11}).HasParent(0) {
		t.Error("unlinked child must not match parent id 0")
	}
}
