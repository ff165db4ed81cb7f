package service

import (
	"errors"
	"testing"
	"zenda_backend/internal/testutil"
	"zenda_backend/internal/util"
)

func TestToggleStaff(t *testing.T) {
	s := newTestServices(t)
	root := testutil.User(t, s.db, "root@zenda.ao", true)
	target := testutil.User(t, s.db, "g@zenda.ao", false)
	super := &util.Claims{UserID: root.ID, IsStaff: true, IsSuperuser: true}

	if _, err := s.user.ToggleStaff(staffClaims(root.ID), target.ID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("staff actor: want=%v got=%v", util.ErrPermissionDenied, err)
	}
	if _, err := s.user.ToggleStaff(super, root.ID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("self toggle: want=%v got=%v", util.ErrPermissionDenied, err)
	}

	u, err := s.user.ToggleStaff(super, target.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !u.IsStaff {
		t.Fatalf("is_staff: want=true got=false")
	}
	stored, _ := s.user.Get(target.ID)
	if !stored.IsStaff {
		t.Fatalf("stored is_staff: want=true got=false")
	}

	if _, err := s.user.ToggleStaff(super, 4040); !errors.Is(err, util.ErrUserNotFound) {
		t.Fatalf("missing user: want=%v got=%v", util.ErrUserNotFound, err)
	}
}
