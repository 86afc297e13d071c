package usecase

import (
	"testing"

	"catering/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestCanManage(t *testing.T) {
	store := model.Store{ID: "bob", ManagerEmail: "mgr@bob.com"}

	cases := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"担当マネージャ", Actor{Email: "mgr@bob.com", Role: model.RoleManager}, true},
		{"大文字小文字は区別しない", Actor{Email: "MGR@BOB.COM", Role: model.RoleManager}, true},
		{"別ストアのマネージャ", Actor{Email: "mgr@han.com", Role: model.RoleManager}, false},
		{"管理者は常に可", Actor{Email: "admin@example.com", Role: model.RoleAdmin}, true},
		{"システム起点", SystemActor, true},
		{"顧客はメールが一致しても不可", Actor{Email: "mgr@bob.com", Role: model.RoleCustomer}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, canManage(tc.actor, store))
		})
	}
}
